package scenes

import (
	"errors"
	"log"
	"sync"

	cfg "github.com/automoto/fingerdrop/config"
	"github.com/automoto/fingerdrop/network"
	"github.com/automoto/fingerdrop/shared/directory"
	"github.com/automoto/fingerdrop/shared/identity"
	"github.com/automoto/fingerdrop/systems"
	"github.com/automoto/fingerdrop/ui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

var errNoRelay = errors.New("no compatible relay registered")

// ConnectScene lets the player pick a relay and room before playing.
type ConnectScene struct {
	ecsWorld     *ecs.ECS
	sceneChanger SceneChanger
	connectUI    *ui.ConnectUI
	netClient    *network.Client
	key          identity.FingerKey
	once         sync.Once
	offline      bool

	// Find results are written by the lookup goroutine and applied in Update.
	mu        sync.Mutex
	found     directory.ServerInfo
	findErr   error
	findDone  bool
	directory *directory.Client
}

func NewConnectScene(sc SceneChanger) *ConnectScene {
	return &ConnectScene{
		sceneChanger: sc,
		directory:    directory.NewClient(cfg.Network.MasterURL),
	}
}

// NewConnectSceneWithStatus opens the connect screen with a message, used
// when a play session ends because the relay went away.
func NewConnectSceneWithStatus(sc SceneChanger, status string) *ConnectScene {
	s := NewConnectScene(sc)
	s.once.Do(s.configure)
	s.connectUI.SetStatus(status)
	return s
}

func (s *ConnectScene) Update() {
	s.once.Do(s.configure)

	s.ecsWorld.Update()
	s.connectUI.Update()

	if s.offline {
		if s.netClient != nil {
			s.netClient.Disconnect()
			s.netClient = nil
		}
		s.sceneChanger.ChangeScene(NewPlayScene(s.sceneChanger, nil, identity.NewFingerKey()))
		return
	}

	s.applyFindResult()

	if s.netClient == nil {
		return
	}
	switch s.netClient.State() {
	case network.StateJoined:
		systems.SaveCurrentSettings(s.connectUI.Address(), s.netClient.Room())
		client := s.netClient
		s.netClient = nil
		s.sceneChanger.ChangeScene(NewPlayScene(s.sceneChanger, client, s.key))

	case network.StateError:
		errMsg := "Connection failed"
		if err := s.netClient.LastError(); err != nil {
			errMsg = err.Error()
		}
		s.connectUI.SetStatus(errMsg)
		s.connectUI.SetBusy(false)
		s.netClient.Disconnect()
		s.netClient = nil

	case network.StateConnecting:
		s.connectUI.SetStatus("Connecting...")

	case network.StateConnected:
		s.connectUI.SetStatus("Connected, joining room...")

	case network.StateDisconnected:
		s.connectUI.SetStatus("Disconnected")
		s.connectUI.SetBusy(false)
		s.netClient = nil
	}
}

func (s *ConnectScene) Draw(screen *ebiten.Image) {
	screen.Fill(cfg.Background)

	if s.ecsWorld == nil {
		return
	}
	s.connectUI.UI.Draw(screen)
}

func (s *ConnectScene) configure() {
	s.ecsWorld = ecs.NewECS(donburi.NewWorld())
	s.ecsWorld.AddSystem(systems.UpdateAudio)

	address, room := cfg.Network.DefaultAddress, cfg.Network.DefaultRoom
	if saved, _ := systems.LoadSettings(); saved != nil {
		if saved.LastAddress != "" {
			address = saved.LastAddress
		}
		if saved.LastRoom != "" {
			room = saved.LastRoom
		}
	}

	s.connectUI = ui.NewConnectUI(address, room,
		func(address, room string) { s.onConnect(address, room) },
		func() { s.onFind() },
		func() { s.offline = true },
	)
}

func (s *ConnectScene) onConnect(address, room string) {
	systems.PlaySFX(s.ecsWorld, cfg.SoundMenuSelect)
	if s.netClient != nil {
		s.netClient.Disconnect()
	}

	s.connectUI.SetStatus("Connecting...")
	s.connectUI.SetBusy(true)

	s.key = identity.NewFingerKey()
	s.netClient = network.NewClient()
	s.netClient.Connect(address, cfg.Network.Version, room, s.key)
}

func (s *ConnectScene) onFind() {
	systems.PlaySFX(s.ecsWorld, cfg.SoundMenuSelect)
	s.connectUI.SetStatus("Looking for a relay...")
	s.connectUI.SetBusy(true)

	go s.queryMasterServer()
}

func (s *ConnectScene) queryMasterServer() {
	var (
		info directory.ServerInfo
		err  error
	)
	servers, err := s.directory.List()
	if err != nil {
		log.Printf("[connect] master server query failed: %v", err)
	} else if picked, ok := directory.Pick(servers, cfg.Network.Version); ok {
		info = picked
	} else {
		err = errNoRelay
	}

	s.mu.Lock()
	s.found = info
	s.findErr = err
	s.findDone = true
	s.mu.Unlock()
}

func (s *ConnectScene) applyFindResult() {
	s.mu.Lock()
	if !s.findDone {
		s.mu.Unlock()
		return
	}
	info, err := s.found, s.findErr
	s.findDone = false
	s.mu.Unlock()

	s.connectUI.SetBusy(false)
	if err != nil {
		s.connectUI.SetStatus(err.Error())
		return
	}
	s.connectUI.SetAddress(info.Address)
	s.connectUI.SetStatus("Found " + info.Name)
}
