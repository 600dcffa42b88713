package sim

import (
	"time"

	"github.com/automoto/fingerdrop/shared/netconfig"
)

// Config holds the per-peer simulation tuning. Sizes are already scaled to
// the host display.
type Config struct {
	Radius       float64
	FingerWidth  float64
	FingerHeight float64

	RepulseStrength    float64
	RepulseMinDistance float64
	RepulseCooldown    time.Duration
}

// DefaultConfig returns the shared tuning scaled by the display factor.
// A non-positive scale is treated as 1.
func DefaultConfig(scale float64) Config {
	if scale <= 0 {
		scale = 1
	}
	return Config{
		Radius:             netconfig.CircleRadius * scale,
		FingerWidth:        netconfig.FingerWidth * scale,
		FingerHeight:       netconfig.FingerHeight * scale,
		RepulseStrength:    netconfig.RepulseStrength,
		RepulseMinDistance: netconfig.RepulseMinDistance,
		RepulseCooldown:    netconfig.RepulseCooldown,
	}
}
