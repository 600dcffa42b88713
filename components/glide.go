package components

import (
	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
)

// GlideData is the on-screen position of a finger cursor. It eases toward
// the simulation position instead of jumping there.
type GlideData struct {
	X, Y             float64
	TargetX, TargetY float64
	TweenX, TweenY   *gween.Tween
	Placed           bool // false until the first target is known
}

var Glide = donburi.NewComponentType[GlideData]()
