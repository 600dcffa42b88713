package main

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/automoto/fingerdrop/shared/directory"
	"github.com/google/uuid"
)

type relayRecord struct {
	directory.ServerInfo
	LastSeen time.Time
}

// Registry is an in-memory store of live relays with TTL-based expiry.
type Registry struct {
	mu     sync.RWMutex
	relays map[string]*relayRecord
	ttl    time.Duration
	now    func() time.Time
	stopCh chan struct{}
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		relays: make(map[string]*relayRecord),
		ttl:    ttl,
		now:    time.Now,
		stopCh: make(chan struct{}),
	}
}

// Start runs the expiry sweep until Stop is called.
func (r *Registry) Start(interval time.Duration) {
	go r.cleanupLoop(interval)
}

func (r *Registry) Stop() {
	close(r.stopCh)
}

func (r *Registry) Register(info directory.ServerInfo) string {
	info.ID = uuid.NewString()

	r.mu.Lock()
	r.relays[info.ID] = &relayRecord{
		ServerInfo: info,
		LastSeen:   r.now(),
	}
	r.mu.Unlock()

	return info.ID
}

func (r *Registry) Heartbeat(id string, peers, rooms int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.relays[id]
	if !ok {
		return false
	}
	rec.LastSeen = r.now()
	rec.Peers = peers
	rec.Rooms = rooms
	return true
}

// List returns the live relays sorted by name.
func (r *Registry) List() []directory.ServerInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]directory.ServerInfo, 0, len(r.relays))
	for _, rec := range r.relays {
		result = append(result, rec.ServerInfo)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name == result[j].Name {
			return result[i].ID < result[j].ID
		}
		return result[i].Name < result[j].Name
	})
	return result
}

// Expire drops every relay not seen within the TTL and returns how many.
func (r *Registry) Expire() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	n := 0
	for id, rec := range r.relays {
		if now.Sub(rec.LastSeen) >= r.ttl {
			log.Printf("[master] expired relay %q (id=%s, last seen %s ago)",
				rec.Name, id, now.Sub(rec.LastSeen).Round(time.Second))
			delete(r.relays, id)
			n++
		}
	}
	return n
}

func (r *Registry) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.Expire()
		}
	}
}
