package core

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/automoto/fingerdrop/shared/messages"
	"github.com/automoto/fingerdrop/shared/netconfig"
	"github.com/google/uuid"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
)

var (
	ErrRoomFull        = errors.New("room is full")
	ErrVersionMismatch = errors.New("version mismatch")
	ErrAlreadyJoined   = errors.New("already joined")
)

type Config struct {
	Name     string
	Version  string // empty accepts any client version
	MaxPeers int
	TickRate int
}

// Server relays sync messages between the peers of each room.
type Server struct {
	cfg       Config
	loop      *GameLoop
	transport *transports.WsServerTransport

	mu       sync.RWMutex
	rooms    map[string]*Room
	peerRoom map[string]*Room

	stopped atomic.Bool
}

func NewServer(cfg Config) *Server {
	if cfg.MaxPeers <= 0 {
		cfg.MaxPeers = netconfig.DefaultMaxPeers
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = netconfig.DefaultTickRate
	}

	s := &Server{
		cfg:      cfg,
		rooms:    make(map[string]*Room),
		peerRoom: make(map[string]*Room),
	}
	s.loop = NewGameLoop(s, cfg.TickRate)
	return s
}

// Start runs the game loop and serves the necs transport on port. It blocks
// until the transport fails.
func (s *Server) Start(port uint) error {
	s.setupRouterCallbacks()
	go s.loop.Run()

	s.transport = transports.NewWsServerTransport(port, "", nil)
	return s.transport.Start()
}

// Stop halts the game loop. Relaying continues, but shadow simulations no
// longer queue messages.
func (s *Server) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		s.loop.Stop()
	}
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		log.Printf("[relay] client connected: %s", client.Id())
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		if err != nil {
			log.Printf("[relay] client %s disconnected with error: %v", client.Id(), err)
		}
		s.Leave(necsPeer{client: client}.ID())
	})

	router.On(func(client *router.NetworkClient, req messages.JoinRequest) {
		peer := necsPeer{client: client}
		if _, err := s.Join(peer, req); err != nil {
			log.Printf("[relay] join rejected for %s: %v", peer.ID(), err)
			_ = peer.Send(messages.JoinRejected{Reason: err.Error()})
		}
	})

	router.On(func(client *router.NetworkClient, msg messages.SyncMessage) {
		s.Relay(necsPeer{client: client}.ID(), msg)
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		log.Printf("[relay] client error: %v", err)
	})
}

// Join places p into the requested room, creating it if needed. An empty
// room name always creates a fresh room. Messages to p go through its own
// outbox from here on, so a slow peer never holds up the relay.
func (s *Server) Join(p Peer, req messages.JoinRequest) (*Room, error) {
	if s.cfg.Version != "" && req.Version != s.cfg.Version {
		return nil, fmt.Errorf("%w: server=%s client=%s", ErrVersionMismatch, s.cfg.Version, req.Version)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.peerRoom[p.ID()]; ok {
		return nil, ErrAlreadyJoined
	}

	id := req.Room
	if id == "" {
		id = uuid.NewString()
	}
	room, ok := s.rooms[id]
	if !ok {
		room = newRoom(id)
	}

	// room.mu is only held around enqueues, never around network writes.
	room.mu.Lock()
	if len(room.peers) >= s.cfg.MaxPeers {
		room.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrRoomFull, id)
	}
	out := newOutbox(p)
	room.add(out)
	count := len(room.peers)
	_ = out.Send(messages.JoinAccepted{
		Room:       id,
		Peers:      count,
		MaxPeers:   s.cfg.MaxPeers,
		ServerName: s.cfg.Name,
	})
	s.broadcast(room.others(p.ID()), messages.PeerJoined{Peers: count})
	room.mu.Unlock()

	if !ok {
		s.rooms[id] = room
		log.Printf("[relay] room %s created", id)
	}
	s.peerRoom[p.ID()] = room

	log.Printf("[relay] peer %s joined room %s (%d/%d, key=%d)", p.ID(), id, count, s.cfg.MaxPeers, req.Key)
	return room, nil
}

// Leave removes a peer from its room. Empty rooms are dropped. Unknown ids
// are ignored.
func (s *Server) Leave(peerID string) {
	s.mu.Lock()
	room, ok := s.peerRoom[peerID]
	if ok {
		delete(s.peerRoom, peerID)
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	room.mu.Lock()
	left, _ := room.remove(peerID)
	count := len(room.peers)
	s.broadcast(room.others(peerID), messages.PeerLeft{Peers: count})
	room.mu.Unlock()

	if out, ok := left.(*outbox); ok {
		out.close()
	}
	log.Printf("[relay] peer %s left room %s", peerID, room.ID)

	if count > 0 {
		return
	}
	// Join holds s.mu while it adds to a room, so an empty room seen here
	// stays empty until it is deleted.
	s.mu.Lock()
	if s.rooms[room.ID] == room && room.Len() == 0 {
		delete(s.rooms, room.ID)
		log.Printf("[relay] room %s closed", room.ID)
	}
	s.mu.Unlock()
}

// Relay forwards msg from the sender to every other peer in its room, in
// arrival order, and queues it for the shadow simulation. Messages from
// peers outside a room and messages with unknown actions are dropped.
func (s *Server) Relay(senderID string, msg messages.SyncMessage) {
	if _, ok := msg.Intent(); !ok {
		log.Printf("[relay] dropping invalid message from %s: action=%q key=%d", senderID, msg.Action, msg.Key)
		return
	}

	s.mu.RLock()
	room, ok := s.peerRoom[senderID]
	s.mu.RUnlock()
	if !ok {
		return
	}

	// Enqueueing under the room lock keeps per-room order when both peers
	// send at once; the outboxes do the writing.
	room.mu.Lock()
	defer room.mu.Unlock()

	s.broadcast(room.others(senderID), msg)
	if !s.stopped.Load() {
		room.queueShadow(msg)
	}
}

func (s *Server) broadcast(peers []Peer, msg any) {
	for _, p := range peers {
		if err := p.Send(msg); err != nil {
			log.Printf("[relay] send to %s: %v", p.ID(), err)
		}
	}
}

// ProcessCommands advances every room's shadow simulation by dt seconds.
func (s *Server) ProcessCommands(dt float64) {
	for _, room := range s.snapshotRooms() {
		room.step(dt)
	}
}

func (s *Server) snapshotRooms() []*Room {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms
}

// Room looks up a live room by id.
func (s *Server) Room(id string) (*Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	return r, ok
}

func (s *Server) PeerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.peerRoom)
}

func (s *Server) RoomCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

func (s *Server) MaxPeers() int {
	return s.cfg.MaxPeers
}
