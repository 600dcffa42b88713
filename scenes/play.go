package scenes

import (
	"log"
	"sync"

	"github.com/automoto/fingerdrop/archetypes"
	"github.com/automoto/fingerdrop/components"
	cfg "github.com/automoto/fingerdrop/config"
	"github.com/automoto/fingerdrop/network"
	"github.com/automoto/fingerdrop/shared/identity"
	"github.com/automoto/fingerdrop/shared/physics"
	"github.com/automoto/fingerdrop/shared/physics/chipmunk"
	"github.com/automoto/fingerdrop/shared/sim"
	"github.com/automoto/fingerdrop/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// PlayScene runs one session on the shared canvas. With a nil client the
// session is local only.
type PlayScene struct {
	ecs          *ecs.ECS
	sceneChanger SceneChanger
	netClient    *network.Client
	session      *sim.Session
	key          identity.FingerKey
	once         sync.Once
}

func NewPlayScene(sc SceneChanger, client *network.Client, key identity.FingerKey) *PlayScene {
	return &PlayScene{
		sceneChanger: sc,
		netClient:    client,
		key:          key,
	}
}

func (ps *PlayScene) Update() {
	ps.once.Do(ps.configure)

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		ps.leave("")
		return
	}

	if ps.netClient != nil {
		switch ps.netClient.State() {
		case network.StateDisconnected:
			log.Println("[play] relay connection closed")
			ps.leave("Connection closed")
			return
		case network.StateError:
			msg := "Connection lost"
			if err := ps.netClient.LastError(); err != nil {
				msg = err.Error()
			}
			log.Printf("[play] %s", msg)
			ps.leave(msg)
			return
		}
	}

	ps.ecs.Update()
}

func (ps *PlayScene) Draw(screen *ebiten.Image) {
	screen.Fill(cfg.Background)

	if ps.ecs == nil {
		return
	}
	ps.ecs.Draw(screen)
}

func (ps *PlayScene) configure() {
	world := donburi.NewWorld()
	ps.ecs = ecs.NewECS(world)

	pw := chipmunk.NewWorld(physics.Settings{
		Width:       float64(cfg.C.Width),
		Height:      float64(cfg.C.Height),
		Gravity:     cfg.World.Gravity,
		Restitution: cfg.World.Restitution,
	})

	opts := []sim.Option{
		sim.WithWorld(world),
		sim.WithLocalKey(ps.key),
	}
	if ps.netClient != nil {
		opts = append(opts, sim.WithChannel(ps.netClient))
	}
	ps.session = sim.NewSession(pw, sim.DefaultConfig(cfg.C.Scale), opts...)

	controller := archetypes.Controller.Spawn(ps.ecs)
	components.Session.SetValue(controller, components.SessionData{Session: ps.session})

	audio := archetypes.Audio.Spawn(ps.ecs)
	components.Audio.SetValue(audio, components.AudioData{
		SFXVolume:  systems.GetSFXVolume(),
		Muted:      systems.IsMuted(),
		PendingSFX: make([]cfg.SoundID, 0, 8),
	})

	net := archetypes.Net.Spawn(ps.ecs)
	components.Net.SetValue(net, components.NetData{Client: ps.netClient})

	ps.ecs.AddSystem(systems.UpdateInput)
	ps.ecs.AddSystem(systems.UpdateNetInbox)
	ps.ecs.AddSystem(systems.UpdateSession)
	ps.ecs.AddSystem(systems.UpdateGlide)
	ps.ecs.AddSystem(systems.UpdateAudio)

	ps.ecs.AddRenderer(cfg.Default, systems.DrawBackground)
	ps.ecs.AddRenderer(cfg.Default, systems.DrawCircles)
	ps.ecs.AddRenderer(cfg.Default, systems.DrawFingers)
	ps.ecs.AddRenderer(cfg.Overlay, systems.DrawHUD)
	ps.ecs.AddRenderer(cfg.Overlay, systems.DrawDebug)

	log.Printf("[play] session started with finger key %d", ps.session.LocalKey())
}

func (ps *PlayScene) leave(status string) {
	if ps.session != nil {
		ps.session.Close()
	}
	if ps.netClient != nil {
		ps.netClient.Disconnect()
		ps.netClient = nil
	}
	systems.SaveCurrentSettings("", "")
	ps.sceneChanger.ChangeScene(NewConnectSceneWithStatus(ps.sceneChanger, status))
}
