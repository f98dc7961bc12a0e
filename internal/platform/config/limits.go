package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// VolumePolicy is the optional YAML override for per-employee volume limits:
//
//	goals:    {max: 100, warn: 80}
//	reviews:  {max: 50, warn: 40}
//	feedback: {max: 200, warn: 160}
//
// Omitted collections keep their defaults.
type VolumePolicy struct {
	Goals    *LimitPolicy `yaml:"goals"`
	Reviews  *LimitPolicy `yaml:"reviews"`
	Feedback *LimitPolicy `yaml:"feedback"`
}

type LimitPolicy struct {
	Max  int `yaml:"max"`
	Warn int `yaml:"warn"`
}

func LoadVolumePolicy(path string) (VolumePolicy, error) {
	if path == "" {
		return VolumePolicy{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return VolumePolicy{}, fmt.Errorf("read limits file: %w", err)
	}
	return ParseVolumePolicy(raw)
}

func ParseVolumePolicy(raw []byte) (VolumePolicy, error) {
	var policy VolumePolicy
	if err := yaml.Unmarshal(raw, &policy); err != nil {
		return VolumePolicy{}, fmt.Errorf("parse limits file: %w", err)
	}
	return policy, nil
}
