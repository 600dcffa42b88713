package systems

import (
	"github.com/automoto/fingerdrop/components"
	cfg "github.com/automoto/fingerdrop/config"
	"github.com/automoto/fingerdrop/shared/sim"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

const glideDuration = 0.12 // seconds

var fingerEntries []*donburi.Entry

// UpdateGlide eases every finger cursor toward its simulation position. A
// cursor's first position is taken as is.
func UpdateGlide(e *ecs.ECS) {
	fingerEntries = fingerEntries[:0]
	sim.Finger.Each(e.World, func(entry *donburi.Entry) {
		fingerEntries = append(fingerEntries, entry)
	})

	dt := float32(cfg.World.PhysicsStep)
	for _, entry := range fingerEntries {
		if !entry.HasComponent(components.Glide) {
			entry.AddComponent(components.Glide)
		}
		finger := sim.Finger.Get(entry)
		glide := components.Glide.Get(entry)

		if !glide.Placed {
			glide.X, glide.Y = finger.X, finger.Y
			glide.TargetX, glide.TargetY = finger.X, finger.Y
			glide.Placed = true
			continue
		}

		if finger.X != glide.TargetX || finger.Y != glide.TargetY {
			glide.TweenX = gween.New(float32(glide.X), float32(finger.X), glideDuration, ease.OutQuad)
			glide.TweenY = gween.New(float32(glide.Y), float32(finger.Y), glideDuration, ease.OutQuad)
			glide.TargetX, glide.TargetY = finger.X, finger.Y
		}

		if glide.TweenX != nil {
			x, done := glide.TweenX.Update(dt)
			glide.X = float64(x)
			if done {
				glide.X = glide.TargetX
				glide.TweenX = nil
			}
		}
		if glide.TweenY != nil {
			y, done := glide.TweenY.Update(dt)
			glide.Y = float64(y)
			if done {
				glide.Y = glide.TargetY
				glide.TweenY = nil
			}
		}
	}
}
