package core

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/automoto/fingerdrop/shared/messages"
)

type fakePeer struct {
	id string

	mu   sync.Mutex
	sent []any
}

func newFakePeer(id string) *fakePeer { return &fakePeer{id: id} }

func (p *fakePeer) ID() string { return p.id }

func (p *fakePeer) Send(msg any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, msg)
	return nil
}

func (p *fakePeer) received() []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]any, len(p.sent))
	copy(out, p.sent)
	return out
}

func (p *fakePeer) syncMessages() []messages.SyncMessage {
	var out []messages.SyncMessage
	for _, m := range p.received() {
		if sm, ok := m.(messages.SyncMessage); ok {
			out = append(out, sm)
		}
	}
	return out
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// waitReceived waits until p has been handed at least n messages by its
// outbox and returns them.
func waitReceived(t *testing.T, p *fakePeer, n int) []any {
	t.Helper()
	waitFor(t, p.id+" messages", func() bool { return len(p.received()) >= n })
	return p.received()
}

func TestJoinAndNotify(t *testing.T) {
	s := NewServer(Config{Name: "test"})
	a, b := newFakePeer("a"), newFakePeer("b")

	if _, err := s.Join(a, messages.JoinRequest{Room: "r1"}); err != nil {
		t.Fatalf("join a: %v", err)
	}
	if _, err := s.Join(b, messages.JoinRequest{Room: "r1"}); err != nil {
		t.Fatalf("join b: %v", err)
	}

	gotA := waitReceived(t, a, 2)
	accA, ok := gotA[0].(messages.JoinAccepted)
	if !ok || accA.Room != "r1" || accA.Peers != 1 || accA.MaxPeers != 2 || accA.ServerName != "test" {
		t.Fatalf("a accepted got=%+v", gotA[0])
	}
	accB := waitReceived(t, b, 1)[0].(messages.JoinAccepted)
	if accB.Peers != 2 {
		t.Fatalf("b accepted peers got=%d want=2", accB.Peers)
	}
	if joined, ok := gotA[1].(messages.PeerJoined); !ok || joined.Peers != 2 {
		t.Fatalf("a should hear about b, got=%+v", gotA[1])
	}
	time.Sleep(20 * time.Millisecond)
	if len(b.received()) != 1 {
		t.Fatalf("b should not get a PeerJoined for itself: %+v", b.received())
	}
	if s.PeerCount() != 2 || s.RoomCount() != 1 {
		t.Fatalf("counts peers=%d rooms=%d", s.PeerCount(), s.RoomCount())
	}
}

func TestRoomFull(t *testing.T) {
	s := NewServer(Config{})
	for _, id := range []string{"a", "b"} {
		if _, err := s.Join(newFakePeer(id), messages.JoinRequest{Room: "r1"}); err != nil {
			t.Fatalf("join %s: %v", id, err)
		}
	}

	_, err := s.Join(newFakePeer("c"), messages.JoinRequest{Room: "r1"})
	if !errors.Is(err, ErrRoomFull) {
		t.Fatalf("third join got err=%v want ErrRoomFull", err)
	}
	if s.PeerCount() != 2 {
		t.Fatalf("rejected peer was counted: %d", s.PeerCount())
	}
}

func TestVersionMismatch(t *testing.T) {
	s := NewServer(Config{Version: "1.0.0"})

	_, err := s.Join(newFakePeer("a"), messages.JoinRequest{Version: "0.9.0", Room: "r1"})
	if !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("got err=%v want ErrVersionMismatch", err)
	}
	if s.RoomCount() != 0 {
		t.Fatalf("rejected join created a room")
	}
}

func TestDoubleJoinRejected(t *testing.T) {
	s := NewServer(Config{})
	a := newFakePeer("a")
	if _, err := s.Join(a, messages.JoinRequest{Room: "r1"}); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := s.Join(a, messages.JoinRequest{Room: "r2"}); !errors.Is(err, ErrAlreadyJoined) {
		t.Fatalf("second join got err=%v want ErrAlreadyJoined", err)
	}
}

func TestEmptyRoomNameCreatesFreshRoom(t *testing.T) {
	s := NewServer(Config{})

	r1, err := s.Join(newFakePeer("a"), messages.JoinRequest{})
	if err != nil {
		t.Fatalf("join a: %v", err)
	}
	r2, err := s.Join(newFakePeer("b"), messages.JoinRequest{})
	if err != nil {
		t.Fatalf("join b: %v", err)
	}
	if r1.ID == "" || r1.ID == r2.ID {
		t.Fatalf("expected two distinct generated rooms, got %q and %q", r1.ID, r2.ID)
	}
}

func TestRelayForwardsInOrderWithoutEcho(t *testing.T) {
	s := NewServer(Config{})
	a, b := newFakePeer("a"), newFakePeer("b")
	_, _ = s.Join(a, messages.JoinRequest{Room: "r1"})
	_, _ = s.Join(b, messages.JoinRequest{Room: "r1"})

	sent := []messages.SyncMessage{
		{Action: messages.ActionCreate, X: 10, Key: 1},
		{Action: messages.ActionRepulse, X: 20, Key: 1},
		{Action: "explode", X: 30, Key: 1},
		{Action: messages.ActionCreate, X: 40, Key: 1},
	}
	for _, m := range sent {
		s.Relay("a", m)
	}

	want := []float64{10, 20, 40}
	waitFor(t, "relayed messages", func() bool { return len(b.syncMessages()) >= len(want) })
	got := b.syncMessages()
	if len(got) != len(want) {
		t.Fatalf("b got %d messages want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].X != want[i] {
			t.Fatalf("message %d got x=%v want %v", i, got[i].X, want[i])
		}
	}
	if echoed := a.syncMessages(); len(echoed) != 0 {
		t.Fatalf("sender received its own messages: %+v", echoed)
	}
}

func TestRelayFromUnknownPeerDropped(t *testing.T) {
	s := NewServer(Config{})
	a := newFakePeer("a")
	_, _ = s.Join(a, messages.JoinRequest{Room: "r1"})

	s.Relay("ghost", messages.SyncMessage{Action: messages.ActionCreate, X: 1, Key: 1})

	if len(a.syncMessages()) != 0 {
		t.Fatal("message from a peer outside any room was forwarded")
	}
}

func TestLeaveNotifiesAndClosesEmptyRooms(t *testing.T) {
	s := NewServer(Config{})
	a, b := newFakePeer("a"), newFakePeer("b")
	_, _ = s.Join(a, messages.JoinRequest{Room: "r1"})
	_, _ = s.Join(b, messages.JoinRequest{Room: "r1"})

	s.Leave("b")
	waitFor(t, "peer left notice", func() bool {
		msgs := a.received()
		if len(msgs) == 0 {
			return false
		}
		_, ok := msgs[len(msgs)-1].(messages.PeerLeft)
		return ok
	})
	msgs := a.received()
	if left, ok := msgs[len(msgs)-1].(messages.PeerLeft); !ok || left.Peers != 1 {
		t.Fatalf("a should hear b left, got=%+v", msgs[len(msgs)-1])
	}

	s.Leave("a")
	s.Leave("a")
	if _, ok := s.Room("r1"); ok {
		t.Fatal("empty room was not removed")
	}
	if s.PeerCount() != 0 || s.RoomCount() != 0 {
		t.Fatalf("counts peers=%d rooms=%d", s.PeerCount(), s.RoomCount())
	}
}

func TestShadowSimulationTracksRoom(t *testing.T) {
	s := NewServer(Config{})
	a, b := newFakePeer("a"), newFakePeer("b")
	_, _ = s.Join(a, messages.JoinRequest{Room: "r1"})
	_, _ = s.Join(b, messages.JoinRequest{Room: "r1"})

	s.Relay("a", messages.SyncMessage{Action: messages.ActionCreate, X: 100, Key: 1})
	s.Relay("b", messages.SyncMessage{Action: messages.ActionCreate, X: 300, Key: 2})
	s.ProcessCommands(1.0 / 60)

	room, ok := s.Room("r1")
	if !ok {
		t.Fatal("room r1 missing")
	}
	st := room.Stats()
	if st.Peers != 2 || st.Circles != 2 || st.Fingers != 2 {
		t.Fatalf("stats got=%+v want peers=2 circles=2 fingers=2", st)
	}
}
