package gamemath

import "math"

// ClampFloat clamps v into [lo, hi]. When lo > hi the range is degenerate
// and lo wins, matching how a too-narrow world pins circles to its left edge.
// NaN maps to lo.
func ClampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// RepulsionImpulse returns the velocity change for a body at (bodyX, bodyY)
// pushed away from (originX, originY). The magnitude is strength/dist, so the
// kick falls off with the inverse of the distance, not its square.
//
// dist is clamped to minDist. A body sitting exactly on the origin is pushed
// straight up, away from the bottom edge the origin always lies on.
func RepulsionImpulse(originX, originY, bodyX, bodyY, strength, minDist float64) (dvx, dvy float64) {
	dx := bodyX - originX
	dy := bodyY - originY
	dist := math.Hypot(dx, dy)

	dirX, dirY := 0.0, -1.0
	if dist > 0 {
		dirX, dirY = dx/dist, dy/dist
	}
	if dist < minDist {
		dist = minDist
	}

	mag := strength / dist
	return dirX * mag, dirY * mag
}
