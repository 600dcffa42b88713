package core

import (
	"log"
	"sync"

	"github.com/automoto/fingerdrop/shared/identity"
	"github.com/automoto/fingerdrop/shared/messages"
	"github.com/automoto/fingerdrop/shared/netconfig"
	"github.com/automoto/fingerdrop/shared/physics"
	"github.com/automoto/fingerdrop/shared/physics/kinematic"
	"github.com/automoto/fingerdrop/shared/sim"
)

// The relay has no finger of its own, so its shadow sessions use a key no
// peer can draw.
const relayKey identity.FingerKey = -1

// maxShadowBacklog bounds the messages waiting for the game loop. Past it
// the shadow simulation skips messages; peers are unaffected.
const maxShadowBacklog = 4096

// Room pairs up to MaxPeers peers and keeps a shadow simulation of what
// they are doing. The shadow is never sent back to peers.
type Room struct {
	ID string

	mu      sync.Mutex
	peers   []Peer
	pending []messages.SyncMessage
	skipped int
	shadow  *sim.Session
}

func newRoom(id string) *Room {
	world := kinematic.NewWorld(physics.Settings{
		Width:       netconfig.ShadowWidth,
		Height:      netconfig.ShadowHeight,
		Gravity:     netconfig.Gravity,
		Restitution: netconfig.Restitution,
	})
	return &Room{
		ID:     id,
		shadow: sim.NewSession(world, sim.DefaultConfig(1), sim.WithLocalKey(relayKey)),
	}
}

// Len returns the number of peers in the room.
func (r *Room) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.peers)
}

func (r *Room) add(p Peer) {
	r.peers = append(r.peers, p)
}

func (r *Room) remove(id string) (Peer, bool) {
	for i, p := range r.peers {
		if p.ID() == id {
			r.peers = append(r.peers[:i], r.peers[i+1:]...)
			return p, true
		}
	}
	return nil, false
}

// queueShadow hands msg to the shadow simulation. Callers hold r.mu.
func (r *Room) queueShadow(msg messages.SyncMessage) {
	if len(r.pending) >= maxShadowBacklog {
		r.skipped++
		if r.skipped == 1 {
			log.Printf("[relay] Warning: room %s shadow backlog full, skipping messages", r.ID)
		}
		return
	}
	r.pending = append(r.pending, msg)
}

// backlog reports how many messages wait for the next step.
func (r *Room) backlog() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// others returns every peer except the one with id, in join order.
func (r *Room) others(id string) []Peer {
	out := make([]Peer, 0, len(r.peers))
	for _, p := range r.peers {
		if p.ID() != id {
			out = append(out, p)
		}
	}
	return out
}

// step replays queued messages into the shadow session and advances it.
func (r *Room) step(dt float64) {
	r.mu.Lock()
	pending := r.pending
	r.pending = nil
	r.mu.Unlock()

	for _, msg := range pending {
		r.shadow.OnRemoteMessage(msg)
	}
	r.shadow.Update(dt)
	r.shadow.DrainCues()
}

// Stats is a point-in-time view of a room's shadow simulation.
type Stats struct {
	Peers   int
	Circles int
	Fingers int
}

// Stats is only consistent when called from the game loop goroutine.
func (r *Room) Stats() Stats {
	return Stats{
		Peers:   r.Len(),
		Circles: r.shadow.CircleCount(),
		Fingers: r.shadow.FingerCount(),
	}
}
