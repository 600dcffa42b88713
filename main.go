package main

import (
	"flag"
	"image"
	"log"

	"github.com/automoto/fingerdrop/config"
	"github.com/automoto/fingerdrop/fonts"
	"github.com/automoto/fingerdrop/network"
	"github.com/automoto/fingerdrop/scenes"
	"github.com/automoto/fingerdrop/shared/identity"
	"github.com/automoto/fingerdrop/systems"
	"github.com/hajimehoshi/ebiten/v2"
)

type Scene interface {
	Update()
	Draw(screen *ebiten.Image)
}

type Game struct {
	bounds image.Rectangle
	scene  Scene
}

// ChangeScene switches to a new scene
func (g *Game) ChangeScene(scene interface{}) {
	g.scene = scene.(Scene)
}

type options struct {
	address string
	room    string
}

func NewGame(opts options) *Game {
	if err := fonts.LoadDefaults(); err != nil {
		log.Fatalf("Failed to load fonts: %v", err)
	}

	g := &Game{
		bounds: image.Rectangle{},
	}

	switch {
	case config.Debug.Offline:
		g.scene = scenes.NewPlayScene(g, nil, identity.NewFingerKey())
	case opts.address != "":
		// Join straight away; the connect scene still handles the handshake
		// result so a failure lands on the connect screen.
		key := identity.NewFingerKey()
		client := network.NewClient()
		client.Connect(opts.address, config.Network.Version, opts.room, key)
		g.scene = newAutoJoin(g, client, key)
	default:
		g.scene = scenes.NewConnectScene(g)
	}

	return g
}

func (g *Game) Update() error {
	g.scene.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *Game) Layout(width, height int) (int, int) {
	g.bounds = image.Rect(0, 0, config.C.Width, config.C.Height)
	return config.C.Width, config.C.Height
}

// autoJoin waits for the -addr handshake before entering play.
type autoJoin struct {
	game   *Game
	client *network.Client
	key    identity.FingerKey
}

func newAutoJoin(g *Game, client *network.Client, key identity.FingerKey) *autoJoin {
	return &autoJoin{game: g, client: client, key: key}
}

func (a *autoJoin) Update() {
	switch a.client.State() {
	case network.StateJoined:
		a.game.ChangeScene(scenes.NewPlayScene(a.game, a.client, a.key))
	case network.StateError, network.StateDisconnected:
		msg := "Connection failed"
		if err := a.client.LastError(); err != nil {
			msg = err.Error()
		}
		a.client.Disconnect()
		a.game.ChangeScene(scenes.NewConnectSceneWithStatus(a.game, msg))
	}
}

func (a *autoJoin) Draw(screen *ebiten.Image) {
	screen.Fill(config.Background)
}

func main() {
	var opts options
	flag.StringVar(&opts.address, "addr", "", "relay address to join on start (host:port)")
	flag.StringVar(&opts.room, "room", "", "room to join; empty asks the relay for a new one")
	flag.BoolVar(&config.Debug.Offline, "offline", false, "play alone without a relay")
	flag.BoolVar(&config.Debug.ShowBounds, "debug-bounds", false, "outline the physics walls")
	flag.Float64Var(&config.C.Scale, "scale", 1, "circle and cursor size multiplier")
	flag.Parse()

	ebiten.SetWindowSize(config.C.Width, config.C.Height)
	ebiten.SetWindowTitle("fingerdrop")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeOnlyFullscreenEnabled)

	// Initialize persistence and load saved settings
	if err := systems.InitPersistence(); err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
	}
	if saved, err := systems.LoadSettings(); err == nil && saved != nil {
		systems.ApplySavedSettings(saved)
	}
	systems.PreloadAllSFX()

	if err := ebiten.RunGame(NewGame(opts)); err != nil {
		log.Fatal(err)
	}
}
