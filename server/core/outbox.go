package core

import (
	"errors"
	"log"
	"sync"
)

// maxOutbox bounds how far a peer may fall behind before new messages to it
// are dropped.
const maxOutbox = 1024

var (
	ErrPeerStalled = errors.New("peer outbox full")
	ErrPeerClosed  = errors.New("peer outbox closed")
)

// outbox gives a peer its own writer goroutine. Send only enqueues, so
// callers may hold room locks while sending without waiting on the network.
// Messages reach the peer in Send order.
type outbox struct {
	peer Peer

	mu      sync.Mutex
	queue   []any
	closed  bool
	dropped int

	wake chan struct{}
	done chan struct{}
}

func newOutbox(p Peer) *outbox {
	o := &outbox{
		peer: p,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go o.run()
	return o
}

func (o *outbox) ID() string { return o.peer.ID() }

func (o *outbox) Send(msg any) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrPeerClosed
	}
	if len(o.queue) >= maxOutbox {
		o.dropped++
		first := o.dropped == 1
		o.mu.Unlock()
		if first {
			log.Printf("[relay] Warning: peer %s is not keeping up, dropping messages", o.peer.ID())
		}
		return ErrPeerStalled
	}
	o.queue = append(o.queue, msg)
	o.mu.Unlock()

	select {
	case o.wake <- struct{}{}:
	default:
	}
	return nil
}

// close rejects further sends. The writer exits once everything already
// queued has been handed to the peer.
func (o *outbox) close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	o.mu.Unlock()
	close(o.done)
}

func (o *outbox) run() {
	for {
		select {
		case <-o.wake:
			o.flush()
		case <-o.done:
			o.flush()
			return
		}
	}
}

func (o *outbox) flush() {
	for {
		o.mu.Lock()
		batch := o.queue
		o.queue = nil
		o.mu.Unlock()
		if len(batch) == 0 {
			return
		}
		for _, msg := range batch {
			if err := o.peer.Send(msg); err != nil {
				log.Printf("[relay] send to %s: %v", o.peer.ID(), err)
			}
		}
	}
}

// pending reports how many messages wait for the writer.
func (o *outbox) pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.queue)
}
