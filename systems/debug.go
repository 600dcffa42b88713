package systems

import (
	"image/color"

	cfg "github.com/automoto/fingerdrop/config"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi/ecs"
)

var (
	boundsColor = color.RGBA{255, 0, 0, 160}
	sweepColor  = color.RGBA{0, 120, 255, 160}
)

// DrawDebug outlines the physics walls when Debug.ShowBounds is set. The
// ticks at the top edge are one circle diameter wide.
func DrawDebug(e *ecs.ECS, screen *ebiten.Image) {
	if !cfg.Debug.ShowBounds {
		return
	}
	session := GetSession(e)
	if session == nil {
		return
	}
	w, h := session.Physics().Bounds()
	fw, fh := float32(w), float32(h)

	vector.StrokeLine(screen, 0, 0, 0, fh, 2, boundsColor, false)
	vector.StrokeLine(screen, fw, 0, fw, fh, 2, boundsColor, false)
	vector.StrokeLine(screen, 0, fh, fw, fh, 2, boundsColor, false)

	r := float32(session.Config().Radius)
	vector.StrokeLine(screen, 0, 1, r*2, 1, 2, sweepColor, false)
	vector.StrokeLine(screen, fw-r*2, 1, fw, 1, 2, sweepColor, false)
}
