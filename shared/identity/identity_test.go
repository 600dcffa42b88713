package identity

import (
	"math/rand/v2"
	"testing"
)

func TestNewFingerKeyInRange(t *testing.T) {
	for i := 0; i < 2000; i++ {
		if k := NewFingerKey(); !k.Valid() {
			t.Fatalf("NewFingerKey() = %d, outside [0, %d)", k, KeySpace)
		}
	}
}

func TestNewFingerKeyFromCoversSpace(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	seen := make(map[FingerKey]bool)
	for i := 0; i < 20000; i++ {
		seen[NewFingerKeyFrom(r)] = true
	}
	if len(seen) != KeySpace {
		t.Fatalf("saw %d distinct keys, want %d", len(seen), KeySpace)
	}
}

func TestValid(t *testing.T) {
	for _, k := range []FingerKey{0, 7, 255} {
		if !k.Valid() {
			t.Fatalf("%d should be valid", k)
		}
	}
	for _, k := range []FingerKey{-1, 256, 1000} {
		if k.Valid() {
			t.Fatalf("%d should be invalid", k)
		}
	}
}
