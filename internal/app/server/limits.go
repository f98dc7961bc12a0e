package server

import (
	"perfsvc/internal/domain/performance"
	"perfsvc/internal/platform/config"
)

// LimitsFromPolicy overlays a parsed volume policy on the default limits.
func LimitsFromPolicy(policy config.VolumePolicy) performance.Limits {
	limits := performance.DefaultLimits()
	apply := func(dst *performance.Limit, src *config.LimitPolicy) {
		if src == nil {
			return
		}
		dst.Max = src.Max
		dst.Warn = src.Warn
	}
	apply(&limits.Goals, policy.Goals)
	apply(&limits.Reviews, policy.Reviews)
	apply(&limits.Feedback, policy.Feedback)
	return limits
}
