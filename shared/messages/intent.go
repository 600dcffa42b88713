package messages

import (
	"math"

	"github.com/automoto/fingerdrop/shared/identity"
)

// IntentKind is the closed set of things a player can do.
type IntentKind int

const (
	IntentCreate IntentKind = iota
	IntentRepulse
)

func (k IntentKind) String() string {
	switch k {
	case IntentCreate:
		return string(ActionCreate)
	case IntentRepulse:
		return string(ActionRepulse)
	}
	return "unknown"
}

// Intent is a validated action, ready to be applied to a session.
type Intent struct {
	Kind IntentKind
	X    float64
	Key  identity.FingerKey
}

// Create builds a create intent.
func Create(key identity.FingerKey, x float64) Intent {
	return Intent{Kind: IntentCreate, X: x, Key: key}
}

// Repulse builds a repulse intent.
func Repulse(key identity.FingerKey, x float64) Intent {
	return Intent{Kind: IntentRepulse, X: x, Key: key}
}

// Intent converts m into an Intent. It returns false for unknown actions,
// out-of-range keys and non-finite coordinates.
func (m SyncMessage) Intent() (Intent, bool) {
	if !m.Key.Valid() || math.IsNaN(m.X) || math.IsInf(m.X, 0) {
		return Intent{}, false
	}
	switch m.Action {
	case ActionCreate:
		return Create(m.Key, m.X), true
	case ActionRepulse:
		return Repulse(m.Key, m.X), true
	}
	return Intent{}, false
}

// Message converts the intent back to its wire form.
func (i Intent) Message() SyncMessage {
	action := ActionCreate
	if i.Kind == IntentRepulse {
		action = ActionRepulse
	}
	return SyncMessage{Action: action, X: i.X, Key: i.Key}
}
