package sim

import (
	"github.com/automoto/fingerdrop/shared/gamemath"
	"github.com/automoto/fingerdrop/shared/identity"
	"github.com/automoto/fingerdrop/shared/physics"
	"github.com/yohamta/donburi"
)

// Spawn drops a new circle above the top edge at x, clamped so the circle
// fits horizontally, and moves key's cursor to the top edge.
func (s *Session) Spawn(key identity.FingerKey, x float64) donburi.Entity {
	w, _ := s.physics.Bounds()
	r := s.cfg.Radius
	x = gamemath.ClampFloat(x, r, w-r)

	body := s.physics.AddCircle(x, -2*r, r, physics.GroupCircles)
	entity := s.world.Create(TagCircle, Circle)
	Circle.Set(s.world.Entry(entity), &CircleData{Body: body, Key: key})

	s.moveFinger(key, x-s.cfg.FingerWidth*0.3, 0)
	s.cues = append(s.cues, CueDrop)
	return entity
}

// Repulse pushes every circle away from (x, H). The velocity change falls
// off as strength/dist.
func (s *Session) Repulse(key identity.FingerKey, x float64) {
	w, h := s.physics.Bounds()
	x = gamemath.ClampFloat(x, 0, w)

	Circle.Each(s.world, func(e *donburi.Entry) {
		body := Circle.Get(e).Body
		bx, by := body.Position()
		dvx, dvy := gamemath.RepulsionImpulse(x, h, bx, by, s.cfg.RepulseStrength, s.cfg.RepulseMinDistance)
		vx, vy := body.Velocity()
		body.SetVelocity(vx+dvx, vy+dvy)
	})

	s.moveFinger(key, x-s.cfg.FingerWidth*0.3, h-s.cfg.FingerHeight*0.5)
	s.cues = append(s.cues, CueFire)
}

// Sweep removes circles whose center is above -2*radius and returns how many
// were removed. A circle exactly at -2*radius stays.
func (s *Session) Sweep() int {
	var gone []*donburi.Entry
	Circle.Each(s.world, func(e *donburi.Entry) {
		body := Circle.Get(e).Body
		if _, y := body.Position(); y < -2*body.Radius() {
			gone = append(gone, e)
		}
	})
	for _, e := range gone {
		s.removeCircle(e)
	}
	return len(gone)
}

func (s *Session) removeCircle(e *donburi.Entry) {
	s.physics.Remove(Circle.Get(e).Body)
	s.world.Remove(e.Entity())
}

func (s *Session) moveFinger(key identity.FingerKey, x, y float64) {
	entity, ok := s.fingers[key]
	if !ok || !s.world.Valid(entity) {
		entity = s.world.Create(TagFinger, Finger)
		s.fingers[key] = entity
	}
	s.z++
	Finger.Set(s.world.Entry(entity), &FingerData{Key: key, X: x, Y: y, Z: s.z})
}

// CircleCount returns the number of live circles.
func (s *Session) CircleCount() int {
	n := 0
	Circle.Each(s.world, func(*donburi.Entry) { n++ })
	return n
}

// Finger returns the cursor for key, if any action with that key was seen.
func (s *Session) Finger(key identity.FingerKey) (FingerData, bool) {
	entity, ok := s.fingers[key]
	if !ok || !s.world.Valid(entity) {
		return FingerData{}, false
	}
	return *Finger.Get(s.world.Entry(entity)), true
}

func (s *Session) FingerCount() int {
	return len(s.fingers)
}

// EachCircle calls fn with the position and radius of every live circle.
func (s *Session) EachCircle(fn func(x, y, r float64, key identity.FingerKey)) {
	Circle.Each(s.world, func(e *donburi.Entry) {
		c := Circle.Get(e)
		x, y := c.Body.Position()
		fn(x, y, c.Body.Radius(), c.Key)
	})
}
