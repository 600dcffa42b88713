package components

import (
	"github.com/automoto/fingerdrop/shared/sim"
	"github.com/yohamta/donburi"
)

// SessionData holds the play scene's simulation (singleton component).
type SessionData struct {
	Session *sim.Session
}

var Session = donburi.NewComponentType[SessionData]()
