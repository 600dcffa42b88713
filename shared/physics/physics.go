// Package physics is the contract between the simulation core and whatever
// rigid-body solver moves the circles. The core only needs to spawn circles,
// read and write their state, remove them and step time forward.
package physics

// Group is a collision category bitmask.
type Group uint

const (
	GroupCircles Group = 1 << iota
	GroupBounds
)

// Collides reports whether shapes in groups a and b interact. Circles hit
// each other and the bounds; the bounds never hit themselves.
func Collides(a, b Group) bool {
	return Mask(a)&b != 0
}

// Mask returns the set of groups g collides with.
func Mask(g Group) Group {
	switch g {
	case GroupCircles:
		return GroupCircles | GroupBounds
	case GroupBounds:
		return GroupCircles
	}
	return 0
}

// Body is a single simulated circle. Coordinates are in world pixels with y
// growing downward; velocities are pixels per second.
type Body interface {
	Position() (x, y float64)
	SetPosition(x, y float64)
	Velocity() (vx, vy float64)
	SetVelocity(vx, vy float64)
	Radius() float64
	Group() Group
}

// World owns every body it creates.
type World interface {
	AddCircle(x, y, radius float64, group Group) Body
	// Remove releases b. Removing an unknown or already removed body is a no-op.
	Remove(b Body)
	Step(dt float64)
	Bounds() (width, height float64)
	Len() int
}

// Settings tune a solver. Both backends read the same values so peers with
// different backends stay close.
type Settings struct {
	Width, Height float64
	Gravity       float64 // px/s^2, positive pulls toward the bottom edge
	Restitution   float64 // bounce factor for a circle/circle or circle/wall pair
}
