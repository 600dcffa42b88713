// Package directory is the wire contract of the master server, the registry
// relays announce themselves to and clients browse to find one.
package directory

// ServerInfo describes a relay visible to clients.
type ServerInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Peers    int    `json:"peers"`
	Rooms    int    `json:"rooms"`
	MaxPeers int    `json:"maxPeers"`
	Version  string `json:"version"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Peers    int    `json:"peers"`
	Rooms    int    `json:"rooms"`
	MaxPeers int    `json:"maxPeers"`
	Version  string `json:"version"`
}

type RegisterResponse struct {
	ID string `json:"id"`
}

type HeartbeatRequest struct {
	ID    string `json:"id"`
	Peers int    `json:"peers"`
	Rooms int    `json:"rooms"`
}
