package systems

import (
	"encoding/json"
	"log"

	"github.com/quasilyte/gdata"
)

// SavedSettings represents the settings data stored on disk. Simulation
// state is never saved; a new session always starts empty.
type SavedSettings struct {
	SFXVolume   float64 `json:"sfxVolume"`
	Muted       bool    `json:"muted"`
	LastAddress string  `json:"lastAddress"`
	LastRoom    string  `json:"lastRoom"`
}

const settingsKey = "settings"

var gdataManager *gdata.Manager
var gdataInitialized bool

// InitPersistence initializes the gdata manager for settings storage
func InitPersistence() error {
	m, err := gdata.Open(gdata.Config{
		AppName: "fingerdrop",
	})
	if err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
		return err
	}
	gdataManager = m
	gdataInitialized = true
	return nil
}

// LoadSettings returns nil, nil when nothing has been saved yet or storage
// is unavailable.
func LoadSettings() (*SavedSettings, error) {
	if !gdataInitialized || gdataManager == nil {
		return nil, nil
	}

	data, err := gdataManager.LoadItem(settingsKey)
	if err != nil {
		log.Printf("Warning: Could not load settings: %v", err)
		return nil, nil
	}
	if data == nil {
		return nil, nil
	}

	var settings SavedSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		log.Printf("Warning: Could not parse saved settings: %v", err)
		return nil, err
	}

	return &settings, nil
}

// SaveSettings saves settings to disk
func SaveSettings(s *SavedSettings) error {
	if !gdataInitialized || gdataManager == nil {
		return nil
	}

	data, err := json.Marshal(s)
	if err != nil {
		log.Printf("Warning: Could not serialize settings: %v", err)
		return err
	}

	if err := gdataManager.SaveItem(settingsKey, data); err != nil {
		log.Printf("Warning: Could not save settings: %v", err)
		return err
	}
	return nil
}

// ApplySavedSettings pushes loaded audio settings into the audio globals.
func ApplySavedSettings(saved *SavedSettings) {
	if saved == nil {
		return
	}
	SetSFXVolume(saved.SFXVolume)
	SetMuted(saved.Muted)
}

// SaveCurrentSettings stores the audio globals together with the relay the
// player last joined. Empty address or room keep the stored values.
func SaveCurrentSettings(address, room string) {
	saved := &SavedSettings{
		SFXVolume:   GetSFXVolume(),
		Muted:       IsMuted(),
		LastAddress: address,
		LastRoom:    room,
	}
	if prev, _ := LoadSettings(); prev != nil {
		if saved.LastAddress == "" {
			saved.LastAddress = prev.LastAddress
		}
		if saved.LastRoom == "" {
			saved.LastRoom = prev.LastRoom
		}
	}
	_ = SaveSettings(saved)
}
