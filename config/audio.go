package config

import "github.com/automoto/fingerdrop/assets/synth"

// SoundID represents a logical sound effect
type SoundID int

const (
	SoundNone SoundID = iota
	SoundDrop
	SoundFire
	SoundMenuSelect
)

// AudioConfig contains audio-related configuration values
type AudioConfig struct {
	SampleRate    int
	DefaultSFXVol float64
}

// SoundConfig maps sound IDs to synthesis parameters
type SoundConfig struct {
	Tones             map[SoundID]synth.Tone
	VolumeMultipliers map[SoundID]float64
}

var Audio AudioConfig
var Sound SoundConfig

func init() {
	Audio = AudioConfig{
		SampleRate:    44100,
		DefaultSFXVol: 1.0,
	}

	Sound = SoundConfig{
		Tones: map[SoundID]synth.Tone{
			SoundDrop:       {StartHz: 880, EndHz: 440, Duration: 0.18, Decay: 0.06},
			SoundFire:       {StartHz: 140, EndHz: 55, Duration: 0.35, Decay: 0.12, Noise: 0.35},
			SoundMenuSelect: {StartHz: 660, EndHz: 660, Duration: 0.08, Decay: 0.03},
		},
		VolumeMultipliers: map[SoundID]float64{
			SoundFire: 1.2,
		},
	}
}
