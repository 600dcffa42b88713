package config

import (
	"image/color"
	"time"

	"github.com/automoto/fingerdrop/shared/netconfig"
	"github.com/yohamta/donburi/ecs"
)

// Render layers
const (
	Default ecs.LayerID = iota
	Overlay
)

// Config holds general window configuration
type Config struct {
	Width  int
	Height int
	// Scale multiplies circle and cursor sizes, like a device pixel ratio.
	Scale float64
}

// WorldConfig contains simulation tuning shared with the other peer
type WorldConfig struct {
	Gravity      float64
	Restitution  float64
	CircleRadius float64 // base pixels, multiplied by C.Scale
	FingerWidth  float64
	FingerHeight float64

	RepulseStrength    float64
	RepulseMinDistance float64
	RepulseCooldown    time.Duration

	PhysicsStep float64 // seconds per Update
}

// NetworkConfig contains relay connection defaults
type NetworkConfig struct {
	Version        string
	DefaultAddress string
	DefaultRoom    string
	MasterURL      string
}

// HUDConfig contains heads-up display layout
type HUDConfig struct {
	Margin       float64
	LineHeight   float64
	TextColor    color.RGBA
	CooldownBar  color.RGBA
	CooldownBack color.RGBA
	BarWidth     float64
	BarHeight    float64
}

// DebugConfig contains debug/testing command-line options
type DebugConfig struct {
	Offline    bool // Skip the connect screen and play alone
	ShowBounds bool
}

// Global configuration instances
var C *Config
var World WorldConfig
var Network NetworkConfig
var HUD HUDConfig
var Debug DebugConfig

// Shared RGBA color constants
var (
	Background  = color.RGBA{R: 0xed, G: 0xff, B: 0xec, A: 255}
	White       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Ink         = color.RGBA{R: 40, G: 52, B: 44, A: 255}
	FaintInk    = color.RGBA{R: 40, G: 52, B: 44, A: 60}
	CircleFill  = color.RGBA{R: 72, G: 160, B: 120, A: 255}
	CircleEdge  = color.RGBA{R: 36, G: 96, B: 70, A: 255}
	FingerLocal = color.RGBA{R: 255, G: 140, B: 0, A: 230}
	LightRed    = color.RGBA{R: 255, G: 60, B: 60, A: 255}
	Orange      = color.RGBA{R: 255, G: 140, B: 0, A: 255}
)

// FingerPalette colors remote cursors by finger key.
var FingerPalette = []color.RGBA{
	{R: 100, G: 180, B: 255, A: 230},
	{R: 128, G: 0, B: 255, A: 230},
	{R: 255, G: 0, B: 255, A: 230},
	{R: 60, G: 100, B: 160, A: 230},
	{R: 0, G: 170, B: 60, A: 230},
}

func init() {
	C = &Config{
		Width:  480,
		Height: 720,
		Scale:  1,
	}

	World = WorldConfig{
		Gravity:      netconfig.Gravity,
		Restitution:  netconfig.Restitution,
		CircleRadius: netconfig.CircleRadius,
		FingerWidth:  netconfig.FingerWidth,
		FingerHeight: netconfig.FingerHeight,

		RepulseStrength:    netconfig.RepulseStrength,
		RepulseMinDistance: netconfig.RepulseMinDistance,
		RepulseCooldown:    netconfig.RepulseCooldown,

		PhysicsStep: 1.0 / 60,
	}

	Network = NetworkConfig{
		Version:        netconfig.ProtocolVersion,
		DefaultAddress: "localhost:7373",
		DefaultRoom:    "",
		MasterURL:      "http://localhost:8080",
	}

	HUD = HUDConfig{
		Margin:       10,
		LineHeight:   14,
		TextColor:    Ink,
		CooldownBar:  Orange,
		CooldownBack: FaintInk,
		BarWidth:     80,
		BarHeight:    6,
	}
}

// FingerColor picks the cursor color for a key. The local player is always
// drawn in FingerLocal.
func FingerColor(key int, local bool) color.RGBA {
	if local {
		return FingerLocal
	}
	if key < 0 {
		key = -key
	}
	return FingerPalette[key%len(FingerPalette)]
}
