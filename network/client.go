package network

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/automoto/fingerdrop/shared/identity"
	"github.com/automoto/fingerdrop/shared/messages"
	"github.com/coder/websocket"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
)

var ErrNotConnected = errors.New("not connected")

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateJoined
	StateError
)

func (s ClientState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateJoined:
		return "joined"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Client manages the websocket connection to a relay.
// All shared fields are protected by mu (router callbacks run on necs goroutines).
type Client struct {
	mu sync.RWMutex

	state      ClientState
	lastError  error
	room       string
	serverName string
	peers      int
	maxPeers   int
	conn       *websocket.Conn

	// Sync messages must reach the session in arrival order and none may be
	// lost, so unlike a latest-wins snapshot channel this queue never drops.
	inbox []messages.SyncMessage
}

func NewClient() *Client {
	return &Client{state: StateDisconnected}
}

// Connect dials the relay in a background goroutine and joins room. An
// empty room asks the relay for a fresh one.
func (c *Client) Connect(address, version, room string, key identity.FingerKey) {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	c.inbox = nil
	c.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		log.Println("[client] connected to relay")
		c.mu.Lock()
		c.state = StateConnected
		c.mu.Unlock()

		if err := c.SendMessage(messages.JoinRequest{
			Version: version,
			Room:    room,
			Key:     key,
		}); err != nil {
			c.setError(fmt.Errorf("failed to send join request: %w", err))
		}
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinAccepted) {
		c.onJoinAccepted(msg)
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinRejected) {
		log.Printf("[client] join rejected: %s", msg.Reason)
		c.setError(fmt.Errorf("join rejected: %s", msg.Reason))
	})

	router.On(func(_ *router.NetworkClient, msg messages.PeerJoined) {
		c.setPeers(msg.Peers)
	})

	router.On(func(_ *router.NetworkClient, msg messages.PeerLeft) {
		c.setPeers(msg.Peers)
	})

	router.On(func(_ *router.NetworkClient, msg messages.SyncMessage) {
		c.push(msg)
	})

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] disconnected: %v", err)
		c.mu.Lock()
		if c.state != StateError {
			c.state = StateDisconnected
		}
		c.conn = nil
		c.mu.Unlock()
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] error: %v", err)
	})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
		})
		if err != nil {
			c.setError(fmt.Errorf("connection failed: %w", err))
		}
	}()
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.state = StateDisconnected
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}

	router.ResetRouter()
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

func (c *Client) Room() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.room
}

func (c *Client) ServerName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverName
}

// Peers returns the number of peers in the room, including us.
func (c *Client) Peers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.peers
}

func (c *Client) MaxPeers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxPeers
}

// Emit sends a local intent to the other peer.
func (c *Client) Emit(msg messages.SyncMessage) error {
	return c.SendMessage(msg)
}

func (c *Client) SendMessage(msg any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return ErrNotConnected
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

// Drain returns every message received since the last call, oldest first.
func (c *Client) Drain() []messages.SyncMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.inbox
	c.inbox = nil
	return out
}

func (c *Client) push(msg messages.SyncMessage) {
	c.mu.Lock()
	c.inbox = append(c.inbox, msg)
	c.mu.Unlock()
}

func (c *Client) onJoinAccepted(msg messages.JoinAccepted) {
	log.Printf("[client] joined room %s on %s (%d/%d peers)", msg.Room, msg.ServerName, msg.Peers, msg.MaxPeers)
	c.mu.Lock()
	c.room = msg.Room
	c.serverName = msg.ServerName
	c.peers = msg.Peers
	c.maxPeers = msg.MaxPeers
	c.state = StateJoined
	c.mu.Unlock()
}

func (c *Client) setPeers(n int) {
	c.mu.Lock()
	c.peers = n
	c.mu.Unlock()
}

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}
