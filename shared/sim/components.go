package sim

import (
	"github.com/automoto/fingerdrop/shared/identity"
	"github.com/automoto/fingerdrop/shared/physics"
	"github.com/yohamta/donburi"
)

// CircleData links a registry entry to its physics body.
type CircleData struct {
	Body physics.Body
	// Key of the player whose create spawned it.
	Key identity.FingerKey
}

// FingerData is a player's cursor. Z grows each time the cursor is brought
// to the front; renderers draw fingers in ascending Z.
type FingerData struct {
	Key  identity.FingerKey
	X, Y float64
	Z    int
}

var (
	Circle = donburi.NewComponentType[CircleData]()
	Finger = donburi.NewComponentType[FingerData]()

	TagCircle = donburi.NewTag().SetName("Circle")
	TagFinger = donburi.NewTag().SetName("Finger")
)
