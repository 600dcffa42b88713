package systems

import (
	"github.com/automoto/fingerdrop/components"
	cfg "github.com/automoto/fingerdrop/config"
	"github.com/automoto/fingerdrop/shared/sim"
	"github.com/yohamta/donburi/ecs"
)

// GetSession returns the play scene's session, or nil outside of it.
func GetSession(e *ecs.ECS) *sim.Session {
	entry, ok := components.Session.First(e.World)
	if !ok {
		return nil
	}
	return components.Session.Get(entry).Session
}

// UpdateNetInbox feeds relayed messages to the session in arrival order.
// Runs before local taps so a frame applies remote intents first.
func UpdateNetInbox(e *ecs.ECS) {
	session := GetSession(e)
	if session == nil {
		return
	}
	entry, ok := components.Net.First(e.World)
	if !ok {
		return
	}
	client := components.Net.Get(entry).Client
	if client == nil {
		return
	}
	for _, msg := range client.Drain() {
		session.OnRemoteMessage(msg)
	}
}

// UpdateSession turns taps into intents, advances physics, sweeps escaped
// circles and forwards audio cues.
func UpdateSession(e *ecs.ECS) {
	entry, ok := components.Session.First(e.World)
	if !ok {
		return
	}
	session := components.Session.Get(entry).Session

	if entry.HasComponent(components.Pointer) {
		for _, tap := range components.Pointer.Get(entry).Taps {
			session.HandlePointerDown(tap.X, tap.Y)
		}
	}

	session.Update(cfg.World.PhysicsStep)

	for _, cue := range session.DrainCues() {
		PlaySFX(e, cueSound(cue))
	}
}

func cueSound(c sim.Cue) cfg.SoundID {
	switch c {
	case sim.CueDrop:
		return cfg.SoundDrop
	case sim.CueFire:
		return cfg.SoundFire
	}
	return cfg.SoundNone
}
