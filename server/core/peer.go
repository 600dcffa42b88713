package core

import (
	"github.com/leap-fish/necs/router"
)

// Peer is one connected player as seen by a room. Send must be safe to call
// from any goroutine.
type Peer interface {
	ID() string
	Send(msg any) error
}

// necsPeer is a native client on the binary necs transport.
type necsPeer struct {
	client *router.NetworkClient
}

func (p necsPeer) ID() string { return "necs-" + p.client.Id() }

func (p necsPeer) Send(msg any) error {
	return p.client.SendMessage(msg)
}
