package crypto

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// Anonymizer replaces identifiers with a keyed BLAKE2b-256 digest truncated
// to 16 bytes. The mapping is deterministic for a given key and cannot be
// reversed without brute forcing the id space under that key.
type Anonymizer struct {
	key []byte
}

func NewAnonymizer(key string) (*Anonymizer, error) {
	if key == "" {
		return &Anonymizer{}, nil
	}
	decoded := decodeKey(key)
	if len(decoded) > blake2b.Size {
		return nil, fmt.Errorf("ANONYMIZATION_KEY must be at most %d bytes after decoding", blake2b.Size)
	}
	return &Anonymizer{key: decoded}, nil
}

func (a *Anonymizer) Keyed() bool {
	return len(a.key) > 0
}

func (a *Anonymizer) Anonymize(id uuid.UUID) uuid.UUID {
	h, err := blake2b.New256(a.key)
	if err != nil {
		// key length is checked in NewAnonymizer
		panic(err)
	}
	h.Write(id[:])
	sum := h.Sum(nil)

	var out uuid.UUID
	copy(out[:], sum[:16])
	return out
}

func decodeKey(raw string) []byte {
	if len(raw) == 64 {
		if decoded, err := hex.DecodeString(raw); err == nil {
			return decoded
		}
	}
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		return decoded
	}
	if decoded, err := base64.RawStdEncoding.DecodeString(raw); err == nil {
		return decoded
	}
	return []byte(raw)
}
