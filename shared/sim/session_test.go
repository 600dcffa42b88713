package sim

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/automoto/fingerdrop/shared/identity"
	"github.com/automoto/fingerdrop/shared/messages"
	"github.com/automoto/fingerdrop/shared/physics/physicstest"
	"github.com/yohamta/donburi"
)

const (
	testW = 400.0
	testH = 600.0
)

type recorder struct {
	sent []messages.SyncMessage
	err  error
}

func (r *recorder) Emit(msg messages.SyncMessage) error {
	r.sent = append(r.sent, msg)
	return r.err
}

type fakeClock struct{ t time.Time }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestSession(key identity.FingerKey) (*Session, *physicstest.World, *recorder, *fakeClock) {
	pw := physicstest.NewWorld(testW, testH)
	rec := &recorder{}
	clock := newClock()
	s := NewSession(pw, DefaultConfig(1),
		WithChannel(rec),
		WithClock(clock.Now),
		WithLocalKey(key),
	)
	return s, pw, rec, clock
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSpawnClampsToBounds(t *testing.T) {
	s, pw, _, _ := newTestSession(3)

	s.Spawn(3, -100)
	s.Spawn(3, 1000)
	s.Spawn(3, 200)

	want := []float64{20, 380, 200}
	bodies := pw.Bodies()
	if len(bodies) != 3 {
		t.Fatalf("bodies got=%d want=3", len(bodies))
	}
	for i, b := range bodies {
		if b.X != want[i] || b.Y != -40 {
			t.Fatalf("body %d got=(%v,%v) want=(%v,-40)", i, b.X, b.Y, want[i])
		}
	}
}

func TestSpawnMovesFingerToTop(t *testing.T) {
	s, _, _, _ := newTestSession(3)

	s.Spawn(9, 1000)

	f, ok := s.Finger(9)
	if !ok {
		t.Fatal("finger for key 9 not created")
	}
	if !near(f.X, 380-32*0.3) || f.Y != 0 {
		t.Fatalf("finger got=(%v,%v) want=(%v,0)", f.X, f.Y, 380-32*0.3)
	}
}

func TestRepulseClampsOrigin(t *testing.T) {
	s, _, _, _ := newTestSession(3)

	s.Repulse(4, -50)
	f, _ := s.Finger(4)
	if !near(f.X, -32*0.3) || f.Y != testH-24 {
		t.Fatalf("left clamp got=(%v,%v) want=(%v,%v)", f.X, f.Y, -32*0.3, testH-24)
	}

	s.Repulse(4, 999)
	f, _ = s.Finger(4)
	if !near(f.X, testW-32*0.3) {
		t.Fatalf("right clamp got=%v want=%v", f.X, testW-32*0.3)
	}
}

func TestRepulsePushesOutwardAndFallsOff(t *testing.T) {
	s, pw, _, _ := newTestSession(3)
	s.Spawn(3, 100)
	s.Spawn(3, 300)
	bodies := pw.Bodies()
	// Origin is (200, 600). Put the first circle closer than the second.
	bodies[0].SetPosition(150, 550)
	bodies[1].SetPosition(350, 300)

	s.Repulse(3, 200)

	for i, b := range bodies {
		dx, dy := b.X-200, b.Y-testH
		if b.VX*dx+b.VY*dy <= 0 {
			t.Fatalf("body %d velocity (%v,%v) does not point away from origin", i, b.VX, b.VY)
		}
		dist := math.Hypot(dx, dy)
		if got := math.Hypot(b.VX, b.VY); !near(got, 200000/dist) {
			t.Fatalf("body %d magnitude got=%v want=%v", i, got, 200000/dist)
		}
	}
	near0 := math.Hypot(bodies[0].VX, bodies[0].VY)
	far := math.Hypot(bodies[1].VX, bodies[1].VY)
	if near0 <= far {
		t.Fatalf("closer circle should get the larger kick: near=%v far=%v", near0, far)
	}
}

func TestRepulseAddsToExistingVelocity(t *testing.T) {
	s, pw, _, _ := newTestSession(3)
	s.Spawn(3, 200)
	b := pw.Bodies()[0]
	b.SetPosition(200, 400)
	b.SetVelocity(10, 20)

	s.Repulse(3, 200)

	if !near(b.VX, 10) || !near(b.VY, 20-1000) {
		t.Fatalf("velocity got=(%v,%v) want=(10,-980)", b.VX, b.VY)
	}
}

func TestRepulseAtZeroDistanceIsFinite(t *testing.T) {
	s, pw, _, _ := newTestSession(3)
	s.Spawn(3, 200)
	b := pw.Bodies()[0]
	b.SetPosition(200, testH)

	s.Repulse(3, 200)

	if math.IsNaN(b.VY) || math.IsInf(b.VY, 0) || b.VY >= 0 {
		t.Fatalf("zero-distance repulse got vy=%v", b.VY)
	}
}

func TestPointerHalves(t *testing.T) {
	s, pw, rec, _ := newTestSession(5)

	s.HandlePointerDown(100, testH/2-1)
	s.HandlePointerDown(100, testH/2)

	if len(rec.sent) != 2 {
		t.Fatalf("sent got=%d want=2", len(rec.sent))
	}
	if rec.sent[0].Action != messages.ActionCreate || rec.sent[1].Action != messages.ActionRepulse {
		t.Fatalf("actions got=%s,%s want=create,repulse", rec.sent[0].Action, rec.sent[1].Action)
	}
	if rec.sent[0].Key != 5 || rec.sent[0].X != 100 {
		t.Fatalf("create message got=%+v", rec.sent[0])
	}
	if pw.Len() != 1 {
		t.Fatalf("circles got=%d want=1", pw.Len())
	}
}

func TestCreateIsNeverThrottled(t *testing.T) {
	s, pw, rec, _ := newTestSession(5)

	for i := 0; i < 5; i++ {
		s.HandlePointerDown(100, 10)
	}

	if pw.Len() != 5 || len(rec.sent) != 5 {
		t.Fatalf("creates got circles=%d sent=%d want 5/5", pw.Len(), len(rec.sent))
	}
}

func TestRepulseThrottle(t *testing.T) {
	s, pw, rec, clock := newTestSession(5)
	s.Spawn(5, 200)
	b := pw.Bodies()[0]
	b.SetPosition(200, 400)

	s.HandlePointerDown(200, 500)
	if len(rec.sent) != 1 {
		t.Fatalf("first repulse sent got=%d want=1", len(rec.sent))
	}
	vy := b.VY
	s.DrainCues()

	clock.Advance(999 * time.Millisecond)
	s.HandlePointerDown(200, 500)
	if len(rec.sent) != 1 {
		t.Fatalf("throttled repulse was emitted")
	}
	if b.VY != vy {
		t.Fatalf("throttled repulse changed velocity: got=%v want=%v", b.VY, vy)
	}
	if f, _ := s.Finger(5); !near(f.X, 200-32*0.3) {
		t.Fatalf("throttled repulse moved the finger")
	}
	if cues := s.DrainCues(); len(cues) != 0 {
		t.Fatalf("throttled repulse queued cues %v", cues)
	}

	clock.Advance(time.Millisecond)
	s.HandlePointerDown(200, 500)
	if len(rec.sent) != 2 {
		t.Fatalf("repulse after cooldown sent got=%d want=2", len(rec.sent))
	}
	if b.VY == vy {
		t.Fatal("repulse after cooldown did not apply")
	}
}

func TestThrottleWindowRestartsOnlyOnAccept(t *testing.T) {
	s, _, rec, clock := newTestSession(5)

	s.HandlePointerDown(10, 590)
	clock.Advance(600 * time.Millisecond)
	s.HandlePointerDown(10, 590)
	clock.Advance(400 * time.Millisecond)
	s.HandlePointerDown(10, 590)

	if len(rec.sent) != 2 {
		t.Fatalf("sent got=%d want=2", len(rec.sent))
	}
}

func TestThrottleWithZeroTimeClock(t *testing.T) {
	pw := physicstest.NewWorld(testW, testH)
	rec := &recorder{}
	s := NewSession(pw, DefaultConfig(1),
		WithChannel(rec),
		WithClock(func() time.Time { return time.Time{} }),
		WithLocalKey(5),
	)

	s.HandlePointerDown(10, 590)
	s.HandlePointerDown(10, 590)

	if len(rec.sent) != 1 {
		t.Fatalf("sent got=%d want=1", len(rec.sent))
	}
	if got := s.CooldownRemaining(); got != time.Second {
		t.Fatalf("cooldown got=%v want=1s", got)
	}
}

func TestNonFiniteXIsClamped(t *testing.T) {
	s, pw, _, _ := newTestSession(3)

	s.Spawn(3, math.NaN())
	s.Spawn(3, math.Inf(1))
	b := pw.Bodies()
	if b[0].X != 20 || b[1].X != 380 {
		t.Fatalf("spawn x got=%v,%v want=20,380", b[0].X, b[1].X)
	}

	s.Repulse(3, math.NaN())
	for i, body := range b {
		if math.IsNaN(body.VX) || math.IsNaN(body.VY) {
			t.Fatalf("body %d velocity got=(%v,%v)", i, body.VX, body.VY)
		}
	}
	if f, _ := s.Finger(3); math.IsNaN(f.X) || !near(f.X, -32*0.3) {
		t.Fatalf("finger x got=%v want=%v", f.X, -32*0.3)
	}
}

func TestCooldownRemaining(t *testing.T) {
	s, _, _, clock := newTestSession(5)
	if got := s.CooldownRemaining(); got != 0 {
		t.Fatalf("idle cooldown got=%v want=0", got)
	}

	s.HandlePointerDown(10, 590)
	clock.Advance(250 * time.Millisecond)
	if got := s.CooldownRemaining(); got != 750*time.Millisecond {
		t.Fatalf("cooldown got=%v want=750ms", got)
	}
	clock.Advance(time.Second)
	if got := s.CooldownRemaining(); got != 0 {
		t.Fatalf("expired cooldown got=%v want=0", got)
	}
}

func TestRemoteCreateMatchesLocal(t *testing.T) {
	a, pwA, recA, _ := newTestSession(1)
	b, pwB, recB, _ := newTestSession(2)

	a.HandlePointerDown(150, 100)
	a.HandlePointerDown(-30, 50)
	for _, msg := range recA.sent {
		b.OnRemoteMessage(msg)
	}

	if len(recB.sent) != 0 {
		t.Fatalf("remote intents were re-emitted: %v", recB.sent)
	}
	ba, bb := pwA.Bodies(), pwB.Bodies()
	if len(ba) != len(bb) {
		t.Fatalf("circle counts differ: local=%d remote=%d", len(ba), len(bb))
	}
	for i := range ba {
		if ba[i].X != bb[i].X || ba[i].Y != bb[i].Y || ba[i].R != bb[i].R {
			t.Fatalf("circle %d differs: local=%+v remote=%+v", i, *ba[i], *bb[i])
		}
	}
	fa, _ := a.Finger(1)
	fb, ok := b.Finger(1)
	if !ok || fa.X != fb.X || fa.Y != fb.Y {
		t.Fatalf("remote finger got=%+v want=%+v", fb, fa)
	}
}

func TestRemoteRepulseIsNotThrottled(t *testing.T) {
	s, _, rec, _ := newTestSession(1)

	msg := messages.SyncMessage{Action: messages.ActionRepulse, X: 50, Key: 2}
	s.OnRemoteMessage(msg)
	s.OnRemoteMessage(msg)

	cues := s.DrainCues()
	if len(cues) != 2 || cues[0] != CueFire || cues[1] != CueFire {
		t.Fatalf("cues got=%v want=[fire fire]", cues)
	}
	if len(rec.sent) != 0 {
		t.Fatalf("remote repulse was emitted")
	}
	if got := s.CooldownRemaining(); got != 0 {
		t.Fatalf("remote repulse touched the local throttle: %v", got)
	}
}

func TestUnknownActionsAreInert(t *testing.T) {
	s, pw, rec, _ := newTestSession(1)

	inputs := []messages.SyncMessage{
		{Action: "explode", X: 10, Key: 2},
		{Action: "", X: 10, Key: 2},
		{Action: messages.ActionCreate, X: 10, Key: 999},
		{Action: messages.ActionCreate, X: math.NaN(), Key: 2},
	}
	for _, msg := range inputs {
		s.OnRemoteMessage(msg)
	}

	if pw.Len() != 0 || s.FingerCount() != 0 || len(rec.sent) != 0 || len(s.DrainCues()) != 0 {
		t.Fatalf("invalid messages had effects: circles=%d fingers=%d sent=%d",
			pw.Len(), s.FingerCount(), len(rec.sent))
	}
}

func TestOneFingerPerKey(t *testing.T) {
	s, _, _, _ := newTestSession(1)

	s.Spawn(7, 100)
	s.Repulse(7, 100)
	s.Spawn(7, 200)
	if s.FingerCount() != 1 {
		t.Fatalf("fingers got=%d want=1", s.FingerCount())
	}

	n := 0
	Finger.Each(s.World(), func(e *donburi.Entry) { n++ })
	if n != 1 {
		t.Fatalf("finger entities got=%d want=1", n)
	}

	s.Spawn(8, 100)
	if s.FingerCount() != 2 {
		t.Fatalf("fingers got=%d want=2", s.FingerCount())
	}
	f7, _ := s.Finger(7)
	f8, _ := s.Finger(8)
	if f8.Z <= f7.Z {
		t.Fatalf("latest finger should be in front: z7=%d z8=%d", f7.Z, f8.Z)
	}
}

func TestFingerAbsentUntilUsed(t *testing.T) {
	s, _, _, _ := newTestSession(1)
	if _, ok := s.Finger(1); ok {
		t.Fatal("local finger exists before any action")
	}
}

func TestSweepBoundary(t *testing.T) {
	s, pw, _, _ := newTestSession(1)
	s.Spawn(1, 100)
	s.Spawn(1, 200)
	s.Spawn(1, 300)
	bodies := pw.Bodies()
	bodies[0].SetPosition(100, -40)
	bodies[1].SetPosition(200, -40.001)
	bodies[2].SetPosition(300, 100)

	if got := s.Sweep(); got != 1 {
		t.Fatalf("swept got=%d want=1", got)
	}
	if got := s.Sweep(); got != 0 {
		t.Fatalf("second sweep got=%d want=0", got)
	}
	if s.CircleCount() != 2 || pw.Len() != 2 || pw.Removed != 1 {
		t.Fatalf("after sweep circles=%d bodies=%d removed=%d", s.CircleCount(), pw.Len(), pw.Removed)
	}
}

func TestUpdateStepsAndSweeps(t *testing.T) {
	s, pw, _, _ := newTestSession(1)
	s.Spawn(1, 100)
	pw.Bodies()[0].SetPosition(100, -500)

	s.Update(1.0 / 60)

	if pw.Steps != 1 || s.CircleCount() != 0 {
		t.Fatalf("update steps=%d circles=%d want 1/0", pw.Steps, s.CircleCount())
	}
}

func TestCuesInOrder(t *testing.T) {
	s, _, _, _ := newTestSession(1)

	s.Spawn(1, 10)
	s.Repulse(1, 10)

	cues := s.DrainCues()
	if len(cues) != 2 || cues[0] != CueDrop || cues[1] != CueFire {
		t.Fatalf("cues got=%v want=[drop fire]", cues)
	}
	if cues := s.DrainCues(); cues != nil {
		t.Fatalf("drained cues got=%v want=nil", cues)
	}
}

func TestEmitErrorsAreSwallowed(t *testing.T) {
	s, pw, rec, _ := newTestSession(1)
	rec.err = errors.New("closed")

	s.HandlePointerDown(100, 10)

	if pw.Len() != 1 || len(rec.sent) != 1 {
		t.Fatalf("local create should apply despite emit error: circles=%d", pw.Len())
	}
}

func TestNoChannelStillApplies(t *testing.T) {
	pw := physicstest.NewWorld(testW, testH)
	s := NewSession(pw, DefaultConfig(2))

	s.HandlePointerDown(100, 10)

	if pw.Len() != 1 || pw.Bodies()[0].R != 40 {
		t.Fatalf("offline create got circles=%d", pw.Len())
	}
	if !s.LocalKey().Valid() {
		t.Fatalf("random local key out of range: %d", s.LocalKey())
	}
}

func TestCloseReleasesBodies(t *testing.T) {
	s, pw, _, _ := newTestSession(1)
	s.Spawn(1, 10)
	s.Spawn(1, 20)

	s.Close()

	if pw.Len() != 0 || s.CircleCount() != 0 {
		t.Fatalf("close left circles=%d bodies=%d", s.CircleCount(), pw.Len())
	}
	if s.FingerCount() != 1 {
		t.Fatalf("close should keep fingers, got=%d", s.FingerCount())
	}
}
