package components

import "github.com/yohamta/donburi"

// Tap is a just-pressed pointer position in screen pixels.
type Tap struct {
	X, Y float64
}

// PointerData collects this frame's taps from mouse and touch (singleton).
type PointerData struct {
	Taps []Tap
}

var Pointer = donburi.NewComponentType[PointerData]()
