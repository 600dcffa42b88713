// Package sim is the event-driven core shared by both peers. A Session owns
// the circle and finger registries, turns pointer taps into intents, applies
// local and remote intents the same way and sweeps circles that leave
// through the open top edge.
//
// A Session is not safe for concurrent use. Hosts serialize pointer events,
// inbound messages and Update on one loop.
package sim

import (
	"log"
	"time"

	"github.com/automoto/fingerdrop/shared/identity"
	"github.com/automoto/fingerdrop/shared/messages"
	"github.com/automoto/fingerdrop/shared/physics"
	"github.com/yohamta/donburi"
)

// Channel carries local intents to the remote peer. Emission is fire and
// forget; the session logs and drops errors.
type Channel interface {
	Emit(msg messages.SyncMessage) error
}

// ChannelFunc adapts a function to Channel.
type ChannelFunc func(messages.SyncMessage) error

func (f ChannelFunc) Emit(msg messages.SyncMessage) error { return f(msg) }

// Origin tells Dispatch where an intent came from.
type Origin int

const (
	OriginLocal Origin = iota
	OriginRemote
)

// Cue is an audio event for the host to play.
type Cue int

const (
	CueDrop Cue = iota
	CueFire
)

func (c Cue) String() string {
	switch c {
	case CueDrop:
		return "drop"
	case CueFire:
		return "fire"
	}
	return "unknown"
}

type Session struct {
	world   donburi.World
	physics physics.World
	cfg     Config
	channel Channel
	now     func() time.Time

	localKey    identity.FingerKey
	lastRepulse time.Time
	repulsed    bool // lastRepulse is only meaningful once set
	fingers     map[identity.FingerKey]donburi.Entity
	z           int
	cues        []Cue

	warnedCollision bool
}

type Option func(*Session)

// WithChannel sets the outbound channel. Without one, local intents are
// applied but not sent anywhere.
func WithChannel(ch Channel) Option {
	return func(s *Session) { s.channel = ch }
}

// WithClock overrides time.Now for the repulse throttle.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithWorld stores registry entries in an existing donburi world, typically
// the world of the host's ECS.
func WithWorld(w donburi.World) Option {
	return func(s *Session) { s.world = w }
}

// WithLocalKey fixes the local finger key instead of drawing a random one.
func WithLocalKey(k identity.FingerKey) Option {
	return func(s *Session) { s.localKey = k }
}

func NewSession(pw physics.World, cfg Config, opts ...Option) *Session {
	s := &Session{
		physics:  pw,
		cfg:      cfg,
		now:      time.Now,
		localKey: identity.NewFingerKey(),
		fingers:  make(map[identity.FingerKey]donburi.Entity),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.world == nil {
		s.world = donburi.NewWorld()
	}
	return s
}

func (s *Session) LocalKey() identity.FingerKey { return s.localKey }
func (s *Session) World() donburi.World         { return s.world }
func (s *Session) Physics() physics.World       { return s.physics }
func (s *Session) Config() Config               { return s.cfg }

// HandlePointerDown maps a tap to an intent: the upper half of the canvas
// drops a circle and the lower half fires a repulse. A repulse inside the
// cooldown window is dropped without side effects.
func (s *Session) HandlePointerDown(x, y float64) {
	_, h := s.physics.Bounds()
	if y < h/2 {
		s.Dispatch(OriginLocal, messages.Create(s.localKey, x))
		return
	}
	s.Dispatch(OriginLocal, messages.Repulse(s.localKey, x))
}

// OnRemoteMessage applies a message received from the other peer. Unknown
// actions and malformed payloads are ignored.
func (s *Session) OnRemoteMessage(msg messages.SyncMessage) {
	in, ok := msg.Intent()
	if !ok {
		return
	}
	s.Dispatch(OriginRemote, in)
}

// Dispatch applies an intent. Only local intents are throttled and emitted.
func (s *Session) Dispatch(origin Origin, in messages.Intent) {
	if origin == OriginRemote {
		s.checkCollision(in.Key)
	}

	switch in.Kind {
	case messages.IntentCreate:
		s.Spawn(in.Key, in.X)
	case messages.IntentRepulse:
		if origin == OriginLocal {
			now := s.now()
			if s.repulsed && now.Before(s.lastRepulse.Add(s.cfg.RepulseCooldown)) {
				return
			}
			s.lastRepulse = now
			s.repulsed = true
		}
		s.Repulse(in.Key, in.X)
	default:
		return
	}

	if origin == OriginLocal {
		s.emit(in.Message())
	}
}

// CooldownRemaining reports how long until a local repulse is accepted.
func (s *Session) CooldownRemaining() time.Duration {
	if !s.repulsed {
		return 0
	}
	left := s.lastRepulse.Add(s.cfg.RepulseCooldown).Sub(s.now())
	if left < 0 {
		return 0
	}
	return left
}

func (s *Session) emit(msg messages.SyncMessage) {
	if s.channel == nil {
		return
	}
	if err := s.channel.Emit(msg); err != nil {
		log.Printf("[sim] emit %s failed: %v", msg.Action, err)
	}
}

// Remote keys may coincide with ours; both players then drive one cursor.
func (s *Session) checkCollision(k identity.FingerKey) {
	if k != s.localKey || s.warnedCollision {
		return
	}
	s.warnedCollision = true
	log.Printf("[sim] Warning: remote finger key %d matches the local key, cursors will be shared", k)
}

// Update advances physics by dt seconds and sweeps escaped circles.
func (s *Session) Update(dt float64) {
	s.physics.Step(dt)
	s.Sweep()
}

// DrainCues returns and clears the pending audio cues in emission order.
func (s *Session) DrainCues() []Cue {
	if len(s.cues) == 0 {
		return nil
	}
	out := s.cues
	s.cues = nil
	return out
}

// Close releases every circle body. Finger cursors stay registered.
func (s *Session) Close() {
	var entries []*donburi.Entry
	Circle.Each(s.world, func(e *donburi.Entry) {
		entries = append(entries, e)
	})
	for _, e := range entries {
		s.removeCircle(e)
	}
}
