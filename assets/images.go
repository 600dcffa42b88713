package assets

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Sprites are drawn once with vector paths and reused every frame.

type circleKey struct {
	radius     int
	fill, edge color.RGBA
}

type fingerKey struct {
	w, h int
}

var (
	circleCache = map[circleKey]*ebiten.Image{}
	fingerCache = map[fingerKey]*ebiten.Image{}
)

// GetCircleImage returns a filled disc with a darker rim, sized 2*radius.
func GetCircleImage(radius float64, fill, edge color.RGBA) *ebiten.Image {
	r := int(radius + 0.5)
	if r < 1 {
		r = 1
	}
	key := circleKey{radius: r, fill: fill, edge: edge}
	if img, ok := circleCache[key]; ok {
		return img
	}

	size := 2 * r
	img := ebiten.NewImage(size, size)
	c := float32(r)
	vector.FillCircle(img, c, c, c, edge, true)
	vector.FillCircle(img, c, c, c-2, fill, true)

	circleCache[key] = img
	return img
}

// GetFingerImage returns a white fingertip silhouette of w by h. Callers
// tint it per player with ColorScale.
func GetFingerImage(w, h float64) *ebiten.Image {
	key := fingerKey{w: int(w + 0.5), h: int(h + 0.5)}
	if key.w < 2 {
		key.w = 2
	}
	if key.h < 2 {
		key.h = 2
	}
	if img, ok := fingerCache[key]; ok {
		return img
	}

	img := ebiten.NewImage(key.w, key.h)
	fw, fh := float32(key.w), float32(key.h)
	half := fw / 2

	// Rounded tip on top of a rectangular body.
	vector.FillCircle(img, half, half, half, color.White, true)
	vector.FillRect(img, 0, half, fw, fh-half, color.White, true)
	// Nail
	vector.FillCircle(img, half, half*0.9, half*0.45, color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)

	fingerCache[key] = img
	return img
}
