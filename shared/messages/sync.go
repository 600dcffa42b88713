package messages

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/automoto/fingerdrop/shared/identity"
)

// Action names carried on the wire.
type Action string

const (
	ActionCreate  Action = "create"
	ActionRepulse Action = "repulse"
)

// SyncMessage is the only gameplay message exchanged between peers. It
// carries no circle identity; receivers act on whatever circles they hold.
type SyncMessage struct {
	Action Action             `json:"action"`
	X      float64            `json:"x"`
	Key    identity.FingerKey `json:"key"`
}

// EncodeJSON renders m in the browser-compatible JSON schema.
func EncodeJSON(m SyncMessage) ([]byte, error) {
	if m.Action == "" {
		return nil, errors.New("encode sync message: empty action")
	}
	return json.Marshal(m)
}

// DecodeJSON parses the JSON schema. Unknown actions decode without error;
// they are filtered out by Intent.
func DecodeJSON(b []byte) (SyncMessage, error) {
	if len(b) == 0 {
		return SyncMessage{}, errors.New("decode sync message: empty payload")
	}
	var m SyncMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return SyncMessage{}, fmt.Errorf("decode sync message: %w", err)
	}
	return m, nil
}
