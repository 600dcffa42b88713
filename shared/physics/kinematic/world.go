// Package kinematic is a small headless solver for the relay's shadow rooms.
// It integrates gravity with semi-implicit Euler, keeps circles inside the
// open-topped bounds and resolves circle overlaps found through a resolv
// broadphase. It does not try to match Chipmunk step for step.
package kinematic

import (
	"math"

	"github.com/automoto/fingerdrop/shared/physics"
	"github.com/solarlune/resolv"
)

const (
	tagCircle = "circle"
	cellSize  = 32
)

// World implements physics.World without an external rigid-body engine.
type World struct {
	settings physics.Settings
	space    *resolv.Space
	bodies   []*body
	nextID   int
	// Resolv cells start at zero, so world y is shifted down by offsetY to
	// keep circles above the top edge inside the broadphase.
	offsetY float64
}

var _ physics.World = (*World)(nil)

func NewWorld(s physics.Settings) *World {
	offsetY := s.Height * 2
	space := resolv.NewSpace(int(s.Width)+cellSize, int(s.Height+offsetY)+cellSize, cellSize, cellSize)
	return &World{
		settings: s,
		space:    space,
		offsetY:  offsetY,
	}
}

func (w *World) AddCircle(x, y, radius float64, group physics.Group) physics.Body {
	w.nextID++
	b := &body{id: w.nextID, x: x, y: y, radius: radius, group: group}

	b.obj = resolv.NewObject(x-radius, y-radius+w.offsetY, radius*2, radius*2, tagCircle)
	b.obj.SetShape(resolv.NewRectangle(0, 0, radius*2, radius*2))
	b.obj.Data = b
	w.space.Add(b.obj)

	w.bodies = append(w.bodies, b)
	return b
}

func (w *World) Remove(pb physics.Body) {
	b, ok := pb.(*body)
	if !ok {
		return
	}
	for i, live := range w.bodies {
		if live == b {
			w.space.Remove(b.obj)
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			return
		}
	}
}

func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	for _, b := range w.bodies {
		b.vy += w.settings.Gravity * dt
		b.x += b.vx * dt
		b.y += b.vy * dt
		w.clamp(b)
		w.sync(b)
	}
	w.separate()
}

func (w *World) Bounds() (float64, float64) {
	return w.settings.Width, w.settings.Height
}

func (w *World) Len() int {
	return len(w.bodies)
}

// clamp keeps b inside the left, right and bottom walls.
func (w *World) clamp(b *body) {
	e := w.settings.Restitution
	if b.x-b.radius < 0 {
		b.x = b.radius
		if b.vx < 0 {
			b.vx = -b.vx * e
		}
	}
	if b.x+b.radius > w.settings.Width {
		b.x = w.settings.Width - b.radius
		if b.vx > 0 {
			b.vx = -b.vx * e
		}
	}
	if b.y+b.radius > w.settings.Height {
		b.y = w.settings.Height - b.radius
		if b.vy > 0 {
			b.vy = -b.vy * e
		}
	}
}

func (w *World) sync(b *body) {
	b.obj.X = b.x - b.radius
	b.obj.Y = b.y - b.radius + w.offsetY
	b.obj.Update()
}

// separate pushes overlapping circle pairs apart and exchanges the normal
// component of their velocities. All circles share the same mass.
func (w *World) separate() {
	for _, a := range w.bodies {
		if !physics.Collides(a.group, physics.GroupCircles) {
			continue
		}
		check := a.obj.Check(0, 0, tagCircle)
		if check == nil {
			continue
		}
		for _, obj := range check.ObjectsByTags(tagCircle) {
			b, ok := obj.Data.(*body)
			// Each pair is handled once, from the lower id.
			if !ok || b.id <= a.id || !physics.Collides(a.group, b.group) {
				continue
			}
			w.resolve(a, b)
		}
	}
}

func (w *World) resolve(a, b *body) {
	dx, dy := b.x-a.x, b.y-a.y
	dist := math.Hypot(dx, dy)
	minDist := a.radius + b.radius
	if dist >= minDist {
		return
	}

	nx, ny := 0.0, 1.0
	if dist > 0 {
		nx, ny = dx/dist, dy/dist
	}

	overlap := (minDist - dist) / 2
	a.x -= nx * overlap
	a.y -= ny * overlap
	b.x += nx * overlap
	b.y += ny * overlap

	vn := (b.vx-a.vx)*nx + (b.vy-a.vy)*ny
	if vn < 0 {
		j := -(1 + w.settings.Restitution) * vn / 2
		a.vx -= j * nx
		a.vy -= j * ny
		b.vx += j * nx
		b.vy += j * ny
	}

	w.clamp(a)
	w.clamp(b)
	w.sync(a)
	w.sync(b)
}

type body struct {
	id     int
	x, y   float64
	vx, vy float64
	radius float64
	group  physics.Group
	obj    *resolv.Object
}

func (b *body) Position() (float64, float64) { return b.x, b.y }
func (b *body) SetPosition(x, y float64)     { b.x, b.y = x, y }
func (b *body) Velocity() (float64, float64) { return b.vx, b.vy }
func (b *body) SetVelocity(vx, vy float64)   { b.vx, b.vy = vx, vy }
func (b *body) Radius() float64              { return b.radius }
func (b *body) Group() physics.Group         { return b.group }
