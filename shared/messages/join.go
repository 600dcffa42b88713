package messages

import "github.com/automoto/fingerdrop/shared/identity"

// JoinRequest is sent by a client after connecting to request a seat in a
// room. An empty Room asks the relay to open a fresh one.
type JoinRequest struct {
	Version string
	Room    string
	Key     identity.FingerKey
}

// JoinAccepted is sent by the relay when a client's join request is accepted.
type JoinAccepted struct {
	Room       string
	Peers      int
	MaxPeers   int
	ServerName string
}

// JoinRejected is sent by the relay when a client's join request is rejected.
type JoinRejected struct {
	Reason string
}

// PeerJoined tells the peers already in a room that someone arrived.
type PeerJoined struct {
	Peers int
}

// PeerLeft tells the remaining peers that someone left.
type PeerLeft struct {
	Peers int
}
