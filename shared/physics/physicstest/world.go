// Package physicstest provides a deterministic physics.World for tests.
// Bodies never move on their own; Step only counts calls.
package physicstest

import "github.com/automoto/fingerdrop/shared/physics"

type World struct {
	Width, Height float64
	Steps         int
	Removed       int

	bodies []*Body
}

var _ physics.World = (*World)(nil)

func NewWorld(width, height float64) *World {
	return &World{Width: width, Height: height}
}

func (w *World) AddCircle(x, y, radius float64, group physics.Group) physics.Body {
	b := &Body{X: x, Y: y, R: radius, G: group}
	w.bodies = append(w.bodies, b)
	return b
}

func (w *World) Remove(pb physics.Body) {
	for i, b := range w.bodies {
		if b == pb {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			w.Removed++
			return
		}
	}
}

func (w *World) Step(float64) { w.Steps++ }

func (w *World) Bounds() (float64, float64) { return w.Width, w.Height }

func (w *World) Len() int { return len(w.bodies) }

// Bodies returns the live bodies in creation order.
func (w *World) Bodies() []*Body {
	out := make([]*Body, len(w.bodies))
	copy(out, w.bodies)
	return out
}

// Body is a plain record whose fields tests may poke directly.
type Body struct {
	X, Y   float64
	VX, VY float64
	R      float64
	G      physics.Group
}

func (b *Body) Position() (float64, float64) { return b.X, b.Y }
func (b *Body) SetPosition(x, y float64)     { b.X, b.Y = x, y }
func (b *Body) Velocity() (float64, float64) { return b.VX, b.VY }
func (b *Body) SetVelocity(vx, vy float64)   { b.VX, b.VY = vx, vy }
func (b *Body) Radius() float64              { return b.R }
func (b *Body) Group() physics.Group         { return b.G }
