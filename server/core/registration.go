package core

import (
	"errors"
	"log"
	"time"

	"github.com/automoto/fingerdrop/shared/directory"
)

const heartbeatInterval = 30 * time.Second

// Registration announces the relay to the master server and keeps the entry
// alive with heartbeats.
type Registration struct {
	master   *directory.Client
	serverID string
	name     string
	address  string
	version  string
	server   *Server
	stopCh   chan struct{}
}

func NewRegistration(masterURL, name, address, version string, server *Server) *Registration {
	return &Registration{
		master:  directory.NewClient(masterURL),
		name:    name,
		address: address,
		version: version,
		server:  server,
		stopCh:  make(chan struct{}),
	}
}

func (r *Registration) Start() {
	if err := r.register(); err != nil {
		log.Printf("[registration] initial registration failed: %v", err)
	}
	go r.heartbeatLoop()
}

func (r *Registration) Stop() {
	close(r.stopCh)
}

func (r *Registration) register() error {
	id, err := r.master.Register(directory.RegisterRequest{
		Name:     r.name,
		Address:  r.address,
		Peers:    r.server.PeerCount(),
		Rooms:    r.server.RoomCount(),
		MaxPeers: r.server.MaxPeers(),
		Version:  r.version,
	})
	if err != nil {
		return err
	}

	r.serverID = id
	log.Printf("[registration] registered with master (id=%s)", r.serverID)
	return nil
}

func (r *Registration) heartbeatLoop() {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			if err := r.sendHeartbeat(); err != nil {
				log.Printf("[registration] heartbeat failed: %v", err)
			}
		}
	}
}

func (r *Registration) sendHeartbeat() error {
	if r.serverID == "" {
		return r.register()
	}

	err := r.master.Heartbeat(directory.HeartbeatRequest{
		ID:    r.serverID,
		Peers: r.server.PeerCount(),
		Rooms: r.server.RoomCount(),
	})
	if errors.Is(err, directory.ErrUnknownServer) {
		log.Println("[registration] master lost our registration, re-registering")
		return r.register()
	}
	return err
}
