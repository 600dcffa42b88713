// Package netconfig holds values that both peers and the relay must agree on.
// It must have zero dependencies on ebiten or any graphics library so the
// relay binary stays headless.
package netconfig

import "time"

// ProtocolVersion is checked by the relay during the join handshake.
const ProtocolVersion = "1.0.0"

const (
	DefaultRelayPort = 7373
	DefaultJSONPort  = 7374
	DefaultMaxPeers  = 2
	DefaultTickRate  = 60
)

// World tuning. Radii and cursor sizes are in base pixels and get multiplied
// by the host display scale.
const (
	Gravity      = 800.0
	Restitution  = 0.3
	CircleRadius = 20.0
	FingerWidth  = 32.0
	FingerHeight = 48.0

	RepulseStrength    = 200000.0
	RepulseMinDistance = 1.0
	RepulseCooldown    = 1000 * time.Millisecond
)

// Shadow rooms on the relay simulate a fixed canvas since peers may differ.
const (
	ShadowWidth  = 800.0
	ShadowHeight = 600.0
)
