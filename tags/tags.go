package tags

import "github.com/yohamta/donburi"

// Circles and fingers are tagged by the simulation itself (sim.TagCircle,
// sim.TagFinger); these tag client-only entities.
var (
	Controller = donburi.NewTag().SetName("Controller")
)
