package crypto

import (
	"testing"

	"github.com/google/uuid"
)

func TestAnonymizeIsDeterministic(t *testing.T) {
	anon, err := NewAnonymizer("test-key")
	if err != nil {
		t.Fatalf("new anonymizer: %v", err)
	}
	id := uuid.New()
	first := anon.Anonymize(id)
	second := anon.Anonymize(id)
	if first != second {
		t.Fatalf("expected stable hash, got %s and %s", first, second)
	}
	if first == id {
		t.Fatal("expected hashed id to differ from input")
	}
	if first == uuid.Nil {
		t.Fatal("hashed id must not collide with the masking sentinel")
	}
}

func TestAnonymizeDependsOnKey(t *testing.T) {
	a, err := NewAnonymizer("key-a")
	if err != nil {
		t.Fatalf("new anonymizer: %v", err)
	}
	b, err := NewAnonymizer("key-b")
	if err != nil {
		t.Fatalf("new anonymizer: %v", err)
	}
	id := uuid.New()
	if a.Anonymize(id) == b.Anonymize(id) {
		t.Fatal("expected different keys to produce different hashes")
	}
}

func TestAnonymizeDistinctInputs(t *testing.T) {
	anon, err := NewAnonymizer("")
	if err != nil {
		t.Fatalf("new anonymizer: %v", err)
	}
	if anon.Keyed() {
		t.Fatal("expected unkeyed anonymizer")
	}
	seen := map[uuid.UUID]bool{}
	for i := 0; i < 1000; i++ {
		hashed := anon.Anonymize(uuid.New())
		if seen[hashed] {
			t.Fatalf("unexpected collision at iteration %d", i)
		}
		seen[hashed] = true
	}
}

func TestNewAnonymizerRejectsLongKey(t *testing.T) {
	long := make([]byte, 65)
	for i := range long {
		long[i] = 'k'
	}
	if _, err := NewAnonymizer(string(long)); err == nil {
		t.Fatal("expected error for oversized key")
	}
}
