package core

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/automoto/fingerdrop/shared/messages"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// The JSON bridge lets peers that only speak the plain {action, x, key}
// schema share rooms with native clients.

const (
	bridgeReadLimit = 1 << 16
	bridgePongWait  = 60 * time.Second
	bridgePingEvery = 25 * time.Second
	bridgeWriteWait = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type bridgePeer struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (p *bridgePeer) ID() string { return p.id }

// Send writes sync messages as JSON text frames. Room control messages have
// no representation in the bridge schema and are skipped.
func (p *bridgePeer) Send(msg any) error {
	sm, ok := msg.(messages.SyncMessage)
	if !ok {
		return nil
	}
	data, err := messages.EncodeJSON(sm)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.conn.SetWriteDeadline(time.Now().Add(bridgeWriteWait))
	return p.conn.WriteMessage(websocket.TextMessage, data)
}

// BridgeHandler serves the JSON bridge at /ws?room=<id>.
func (s *Server) BridgeHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveBridge)
	return mux
}

// StartBridge listens for JSON bridge peers on port. It blocks.
func (s *Server) StartBridge(port uint) error {
	addr := fmt.Sprintf(":%d", port)
	log.Printf("[bridge] listening on %s (ws endpoint: /ws)", addr)
	return http.ListenAndServe(addr, s.BridgeHandler())
}

func (s *Server) serveBridge(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[bridge] upgrade: %v", err)
		return
	}
	defer conn.Close()

	peer := &bridgePeer{id: "json-" + uuid.NewString(), conn: conn}
	req := messages.JoinRequest{Version: s.cfg.Version, Room: r.URL.Query().Get("room")}
	if _, err := s.Join(peer, req); err != nil {
		log.Printf("[bridge] join rejected for %s: %v", peer.id, err)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
			time.Now().Add(time.Second))
		return
	}
	defer s.Leave(peer.id)

	conn.SetReadLimit(bridgeReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(bridgePongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(bridgePongWait))
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(bridgePingEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(bridgeWriteWait)); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[bridge] read from %s: %v", peer.id, err)
			}
			return
		}
		msg, err := messages.DecodeJSON(data)
		if err != nil {
			log.Printf("[bridge] bad payload from %s: %v", peer.id, err)
			continue
		}
		s.Relay(peer.id, msg)
	}
}
