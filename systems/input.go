package systems

import (
	"github.com/automoto/fingerdrop/components"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/yohamta/donburi/ecs"
)

// Reusable slice for touch IDs to avoid allocations
var touchIDs []ebiten.TouchID

// UpdateInput collects this frame's just-pressed taps from mouse and touch.
// Must run before UpdateSession in the system order.
func UpdateInput(e *ecs.ECS) {
	entry, ok := components.Pointer.First(e.World)
	if !ok {
		return
	}
	pointer := components.Pointer.Get(entry)
	pointer.Taps = pointer.Taps[:0]

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		pointer.Taps = append(pointer.Taps, components.Tap{X: float64(x), Y: float64(y)})
	}

	touchIDs = inpututil.AppendJustPressedTouchIDs(touchIDs[:0])
	for _, id := range touchIDs {
		x, y := ebiten.TouchPosition(id)
		pointer.Taps = append(pointer.Taps, components.Tap{X: float64(x), Y: float64(y)})
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		SetMuted(!IsMuted())
		GetOrCreateAudio(e).Muted = IsMuted()
	}
}
