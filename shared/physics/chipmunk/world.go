// Package chipmunk backs physics.World with the Chipmunk2D port.
package chipmunk

import (
	"math"

	"github.com/automoto/fingerdrop/shared/physics"
	"github.com/jakecoffman/cp"
)

const (
	circleMass = 1.0
	wallRadius = 1.0
)

// World is a cp.Space with static walls on the left, right and bottom. The
// top stays open so circles can be launched off screen.
type World struct {
	space    *cp.Space
	settings physics.Settings
	bodies   map[*body]struct{}
}

var _ physics.World = (*World)(nil)

// NewWorld builds a space sized to s.
func NewWorld(s physics.Settings) *World {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{X: 0, Y: s.Gravity})

	w := &World{
		space:    space,
		settings: s,
		bodies:   make(map[*body]struct{}),
	}
	w.addWalls()
	return w
}

func (w *World) addWalls() {
	width, height := w.settings.Width, w.settings.Height
	// Side walls reach one screen above the top edge so freshly spawned
	// circles, which start above the screen, are still fenced in.
	top := -height
	segments := [][2]cp.Vector{
		{{X: 0, Y: top}, {X: 0, Y: height}},
		{{X: width, Y: top}, {X: width, Y: height}},
		{{X: 0, Y: height}, {X: width, Y: height}},
	}

	filter := shapeFilter(physics.GroupBounds)
	for _, seg := range segments {
		shape := cp.NewSegment(w.space.StaticBody, seg[0], seg[1], wallRadius)
		shape.SetElasticity(elasticity(w.settings.Restitution))
		shape.SetFriction(0.5)
		shape.SetFilter(filter)
		w.space.AddShape(shape)
	}
}

// AddCircle creates a dynamic circle centered on (x, y).
func (w *World) AddCircle(x, y, radius float64, group physics.Group) physics.Body {
	b := cp.NewBody(circleMass, cp.MomentForCircle(circleMass, 0, radius, cp.Vector{}))
	b.SetPosition(cp.Vector{X: x, Y: y})
	w.space.AddBody(b)

	shape := cp.NewCircle(b, radius, cp.Vector{})
	shape.SetElasticity(elasticity(w.settings.Restitution))
	shape.SetFriction(0.5)
	shape.SetFilter(shapeFilter(group))
	w.space.AddShape(shape)

	out := &body{body: b, shape: shape, radius: radius, group: group}
	b.UserData = out
	w.bodies[out] = struct{}{}
	return out
}

// Remove detaches b from the space.
func (w *World) Remove(pb physics.Body) {
	b, ok := pb.(*body)
	if !ok {
		return
	}
	if _, live := w.bodies[b]; !live {
		return
	}
	w.space.RemoveShape(b.shape)
	w.space.RemoveBody(b.body)
	delete(w.bodies, b)
}

func (w *World) Step(dt float64) {
	w.space.Step(dt)
}

func (w *World) Bounds() (float64, float64) {
	return w.settings.Width, w.settings.Height
}

func (w *World) Len() int {
	return len(w.bodies)
}

// Chipmunk multiplies the elasticity of both shapes in a contact, so each
// shape carries the square root of the pair restitution.
func elasticity(restitution float64) float64 {
	if restitution <= 0 {
		return 0
	}
	return math.Sqrt(restitution)
}

func shapeFilter(g physics.Group) cp.ShapeFilter {
	return cp.NewShapeFilter(cp.NO_GROUP, uint(g), uint(physics.Mask(g)))
}

type body struct {
	body   *cp.Body
	shape  *cp.Shape
	radius float64
	group  physics.Group
}

func (b *body) Position() (float64, float64) {
	p := b.body.Position()
	return p.X, p.Y
}

func (b *body) SetPosition(x, y float64) {
	b.body.SetPosition(cp.Vector{X: x, Y: y})
}

func (b *body) Velocity() (float64, float64) {
	v := b.body.Velocity()
	return v.X, v.Y
}

func (b *body) SetVelocity(vx, vy float64) {
	b.body.SetVelocity(vx, vy)
	b.body.Activate()
}

func (b *body) Radius() float64      { return b.radius }
func (b *body) Group() physics.Group { return b.group }
