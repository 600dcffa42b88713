package systems

import (
	"log"
	"sync"

	"github.com/automoto/fingerdrop/assets"
	"github.com/automoto/fingerdrop/components"
	cfg "github.com/automoto/fingerdrop/config"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/yohamta/donburi/ecs"
)

// Global audio state - created once and shared across all scenes
var (
	globalAudioContext *audio.Context
	globalAudioLoader  *assets.AudioLoader
	globalSFXVolume    float64 = cfg.Audio.DefaultSFXVol
	globalMuted        bool
	audioInitOnce      sync.Once
)

func initGlobalAudio() {
	audioInitOnce.Do(func() {
		globalAudioContext = audio.NewContext(cfg.Audio.SampleRate)
		globalAudioLoader = assets.NewAudioLoader(globalAudioContext)
	})
}

// PreloadAllSFX renders every configured effect up front so the first drop
// does not stall a frame.
func PreloadAllSFX() {
	initGlobalAudio()

	for id := range cfg.Sound.Tones {
		if err := globalAudioLoader.PreloadSFX(id); err != nil {
			log.Printf("[audio] preload %d: %v", id, err)
		}
	}
}

// UpdateAudio plays the effects queued this frame.
func UpdateAudio(e *ecs.ECS) {
	initGlobalAudio()

	entry, ok := components.Audio.First(e.World)
	if !ok {
		return
	}
	audioData := components.Audio.Get(entry)
	for _, soundID := range audioData.PendingSFX {
		playSFX(soundID)
	}
	audioData.PendingSFX = audioData.PendingSFX[:0]
}

func playSFX(soundID cfg.SoundID) {
	if globalMuted || globalSFXVolume <= 0 || soundID == cfg.SoundNone {
		return
	}

	player, err := globalAudioLoader.LoadSFX(soundID)
	if err != nil {
		log.Printf("[audio] %v", err)
		return
	}

	volume := globalSFXVolume
	if mult, ok := cfg.Sound.VolumeMultipliers[soundID]; ok {
		volume *= mult
	}
	if volume > 1 {
		volume = 1
	}

	player.SetVolume(volume)
	player.Play()
}

// PlaySFX queues a sound effect to be played
func PlaySFX(e *ecs.ECS, sound cfg.SoundID) {
	audioData := GetOrCreateAudio(e)
	audioData.PendingSFX = append(audioData.PendingSFX, sound)
}

// SetSFXVolume changes the SFX volume (0.0 - 1.0)
func SetSFXVolume(volume float64) {
	globalSFXVolume = volume
}

func GetSFXVolume() float64 {
	return globalSFXVolume
}

func SetMuted(muted bool) {
	globalMuted = muted
}

func IsMuted() bool {
	return globalMuted
}

// GetOrCreateAudio returns the singleton Audio component for this ECS, creating it if needed
func GetOrCreateAudio(e *ecs.ECS) *components.AudioData {
	initGlobalAudio()

	entry, ok := components.Audio.First(e.World)
	if !ok {
		entry = e.World.Entry(e.World.Create(components.Audio))
		components.Audio.SetValue(entry, components.AudioData{
			SFXVolume:  globalSFXVolume,
			Muted:      globalMuted,
			PendingSFX: make([]cfg.SoundID, 0, 8),
		})
	}
	return components.Audio.Get(entry)
}
