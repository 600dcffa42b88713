package components

import (
	"github.com/automoto/fingerdrop/network"
	"github.com/yohamta/donburi"
)

// NetData links the play scene to its relay connection (singleton
// component). Client is nil when playing offline.
type NetData struct {
	Client *network.Client
}

var Net = donburi.NewComponentType[NetData]()
