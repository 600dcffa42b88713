package systems

import (
	"fmt"

	"github.com/automoto/fingerdrop/components"
	cfg "github.com/automoto/fingerdrop/config"
	"github.com/automoto/fingerdrop/fonts"
	"github.com/automoto/fingerdrop/network"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi/ecs"
)

// DrawHUD renders connection info in the top-left corner and the repulse
// cooldown bar at the bottom.
func DrawHUD(e *ecs.ECS, screen *ebiten.Image) {
	session := GetSession(e)
	if session == nil {
		return
	}
	face := fonts.Small.Get()
	m := cfg.HUD.Margin
	y := m + cfg.HUD.LineHeight

	for _, line := range hudLines(e) {
		text.Draw(screen, line, face, int(m), int(y), cfg.HUD.TextColor)
		y += cfg.HUD.LineHeight
	}
	text.Draw(screen, fmt.Sprintf("key %d  circles %d", session.LocalKey(), session.CircleCount()),
		face, int(m), int(y), cfg.HUD.TextColor)

	w := float32(screen.Bounds().Dx())
	h := float32(screen.Bounds().Dy())

	// Divider between the drop half and the fire half
	vector.FillRect(screen, 0, h/2, w, 1, cfg.FaintInk, false)

	cooldown := session.CooldownRemaining()
	total := session.Config().RepulseCooldown
	if cooldown <= 0 || total <= 0 {
		return
	}
	barW := float32(cfg.HUD.BarWidth)
	barH := float32(cfg.HUD.BarHeight)
	x := (w - barW) / 2
	by := h - float32(m) - barH
	ratio := float32(cooldown) / float32(total)

	vector.FillRect(screen, x, by, barW, barH, cfg.HUD.CooldownBack, false)
	vector.FillRect(screen, x, by, barW*ratio, barH, cfg.HUD.CooldownBar, false)
}

func hudLines(e *ecs.ECS) []string {
	muted := ""
	if IsMuted() {
		muted = "  [muted]"
	}

	entry, ok := components.Net.First(e.World)
	if !ok || components.Net.Get(entry).Client == nil {
		return []string{"offline" + muted}
	}
	client := components.Net.Get(entry).Client
	if client.State() != network.StateJoined {
		return []string{client.State().String() + muted}
	}
	return []string{
		fmt.Sprintf("room %s  %d/%d%s", client.Room(), client.Peers(), client.MaxPeers(), muted),
		client.ServerName(),
	}
}
