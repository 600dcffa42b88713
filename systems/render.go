package systems

import (
	"sort"

	"github.com/automoto/fingerdrop/assets"
	"github.com/automoto/fingerdrop/components"
	cfg "github.com/automoto/fingerdrop/config"
	"github.com/automoto/fingerdrop/shared/identity"
	"github.com/automoto/fingerdrop/shared/sim"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

var renderOp = &ebiten.DrawImageOptions{}

type fingerSprite struct {
	key  identity.FingerKey
	x, y float64
	z    int
}

var fingerSprites []fingerSprite

func DrawBackground(e *ecs.ECS, screen *ebiten.Image) {
	screen.Fill(cfg.Background)
}

// DrawCircles draws every live circle centered on its body.
func DrawCircles(e *ecs.ECS, screen *ebiten.Image) {
	session := GetSession(e)
	if session == nil {
		return
	}
	session.EachCircle(func(x, y, r float64, _ identity.FingerKey) {
		img := assets.GetCircleImage(r, cfg.CircleFill, cfg.CircleEdge)
		renderOp.GeoM.Reset()
		renderOp.ColorScale.Reset()
		renderOp.GeoM.Translate(x-r, y-r)
		screen.DrawImage(img, renderOp)
	})
}

// DrawFingers draws cursors back to front; the most recently used finger
// ends up on top.
func DrawFingers(e *ecs.ECS, screen *ebiten.Image) {
	session := GetSession(e)
	if session == nil {
		return
	}
	sc := session.Config()
	img := assets.GetFingerImage(sc.FingerWidth, sc.FingerHeight)

	fingerSprites = fingerSprites[:0]
	sim.Finger.Each(e.World, func(entry *donburi.Entry) {
		f := sim.Finger.Get(entry)
		x, y := f.X, f.Y
		if entry.HasComponent(components.Glide) {
			if g := components.Glide.Get(entry); g.Placed {
				x, y = g.X, g.Y
			}
		}
		fingerSprites = append(fingerSprites, fingerSprite{key: f.Key, x: x, y: y, z: f.Z})
	})
	sort.Slice(fingerSprites, func(i, j int) bool { return fingerSprites[i].z < fingerSprites[j].z })

	local := session.LocalKey()
	for _, f := range fingerSprites {
		renderOp.GeoM.Reset()
		renderOp.ColorScale.Reset()
		renderOp.GeoM.Translate(f.x, f.y)
		renderOp.ColorScale.ScaleWithColor(cfg.FingerColor(int(f.key), f.key == local))
		screen.DrawImage(img, renderOp)
	}
}
