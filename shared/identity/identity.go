// Package identity hands out finger keys, the per-session tag that tells one
// player's actions and cursor apart from the other's.
package identity

import "math/rand/v2"

// KeySpace is the number of distinct finger keys.
const KeySpace = 256

// FingerKey identifies who performed an action. Two sessions may draw the
// same key; nothing here tries to prevent that.
type FingerKey int

// NewFingerKey draws a key uniformly from [0, KeySpace).
func NewFingerKey() FingerKey {
	return FingerKey(rand.IntN(KeySpace))
}

// NewFingerKeyFrom draws a key from r. Useful for reproducible sessions.
func NewFingerKeyFrom(r *rand.Rand) FingerKey {
	return FingerKey(r.IntN(KeySpace))
}

// Valid reports whether k lies in [0, KeySpace).
func (k FingerKey) Valid() bool {
	return k >= 0 && k < KeySpace
}
