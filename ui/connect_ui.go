package ui

import (
	"bytes"
	"image/color"
	"log"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	panelColor    = color.RGBA{220, 240, 219, 255}
	inputColor    = color.RGBA{255, 255, 255, 255}
	inkColor      = color.RGBA{40, 52, 44, 255}
	faintInkColor = color.RGBA{120, 130, 124, 255}
	statusColor   = color.RGBA{200, 100, 0, 255}
)

// ConnectUI is the first screen: pick a relay and a room, or play alone.
type ConnectUI struct {
	UI *ebitenui.UI

	OnConnect func(address, room string)
	OnFind    func()
	OnOffline func()

	addressInput *widget.TextInput
	roomInput    *widget.TextInput
	statusLabel  *widget.Label
	connectBtn   *widget.Button
	findBtn      *widget.Button

	titleFace  text.Face
	normalFace text.Face
	smallFace  text.Face
}

func NewConnectUI(address, room string, onConnect func(address, room string), onFind, onOffline func()) *ConnectUI {
	ui := &ConnectUI{
		OnConnect: onConnect,
		OnFind:    onFind,
		OnOffline: onOffline,
	}
	ui.loadFonts()
	ui.buildUI()
	ui.addressInput.SetText(address)
	ui.roomInput.SetText(room)
	return ui
}

func (ui *ConnectUI) loadFonts() {
	fontSource, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Fatalf("failed to load UI font: %v", err)
	}

	ui.titleFace = &text.GoTextFace{Source: fontSource, Size: 24}
	ui.normalFace = &text.GoTextFace{Source: fontSource, Size: 14}
	ui.smallFace = &text.GoTextFace{Source: fontSource, Size: 11}
}

func (ui *ConnectUI) buildUI() {
	rootContainer := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(color.RGBA{0xed, 0xff, 0xec, 255})),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)

	content := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(panelColor)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(widget.NewInsetsSimple(16)),
			widget.RowLayoutOpts.Spacing(8),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
	)

	content.AddChild(widget.NewLabel(
		widget.LabelOpts.Text("fingerdrop", &ui.titleFace, &widget.LabelColor{Idle: inkColor}),
	))
	content.AddChild(widget.NewLabel(
		widget.LabelOpts.Text("tap the top half to drop, the bottom half to fire", &ui.smallFace,
			&widget.LabelColor{Idle: faintInkColor}),
	))

	ui.addressInput = ui.newTextInput("localhost:7373")
	content.AddChild(ui.labeled("Relay", ui.addressInput))

	ui.roomInput = ui.newTextInput("new room")
	content.AddChild(ui.labeled("Room ", ui.roomInput))

	buttons := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(8),
		)),
	)
	ui.connectBtn = ui.newButton("Connect", color.RGBA{72, 160, 120, 255}, func() {
		if ui.OnConnect != nil {
			ui.OnConnect(ui.Address(), ui.Room())
		}
	})
	buttons.AddChild(ui.connectBtn)

	ui.findBtn = ui.newButton("Find relay", color.RGBA{100, 140, 200, 255}, func() {
		if ui.OnFind != nil {
			ui.OnFind()
		}
	})
	buttons.AddChild(ui.findBtn)

	buttons.AddChild(ui.newButton("Play offline", color.RGBA{150, 150, 150, 255}, func() {
		if ui.OnOffline != nil {
			ui.OnOffline()
		}
	}))
	content.AddChild(buttons)

	ui.statusLabel = widget.NewLabel(
		widget.LabelOpts.Text("", &ui.smallFace, &widget.LabelColor{Idle: statusColor}),
	)
	content.AddChild(ui.statusLabel)

	rootContainer.AddChild(content)
	ui.UI = &ebitenui.UI{Container: rootContainer}
}

func (ui *ConnectUI) labeled(label string, input *widget.TextInput) *widget.Container {
	row := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(6),
		)),
	)
	row.AddChild(widget.NewLabel(
		widget.LabelOpts.Text(label, &ui.normalFace, &widget.LabelColor{Idle: inkColor}),
	))
	row.AddChild(input)
	return row
}

func (ui *ConnectUI) newTextInput(placeholder string) *widget.TextInput {
	return widget.NewTextInput(
		widget.TextInputOpts.WidgetOpts(widget.WidgetOpts.MinSize(200, 24)),
		widget.TextInputOpts.Image(&widget.TextInputImage{
			Idle:     image.NewNineSliceColor(inputColor),
			Disabled: image.NewNineSliceColor(panelColor),
		}),
		widget.TextInputOpts.Face(&ui.normalFace),
		widget.TextInputOpts.Color(&widget.TextInputColor{
			Idle:          inkColor,
			Disabled:      faintInkColor,
			Caret:         inkColor,
			DisabledCaret: faintInkColor,
		}),
		widget.TextInputOpts.Placeholder(placeholder),
		widget.TextInputOpts.Padding(widget.NewInsetsSimple(4)),
	)
}

func (ui *ConnectUI) newButton(label string, base color.RGBA, onClick func()) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(96, 28)),
		widget.ButtonOpts.Image(&widget.ButtonImage{
			Idle:     image.NewNineSliceColor(base),
			Hover:    image.NewNineSliceColor(shade(base, 1.15)),
			Pressed:  image.NewNineSliceColor(shade(base, 0.8)),
			Disabled: image.NewNineSliceColor(color.RGBA{190, 200, 190, 255}),
		}),
		widget.ButtonOpts.Text(label, &ui.normalFace, &widget.ButtonTextColor{
			Idle:     color.RGBA{255, 255, 255, 255},
			Hover:    color.RGBA{255, 255, 255, 255},
			Pressed:  color.RGBA{230, 230, 230, 255},
			Disabled: faintInkColor,
		}),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			onClick()
		}),
	)
}

func shade(c color.RGBA, f float64) color.RGBA {
	scale := func(v uint8) uint8 {
		s := float64(v) * f
		if s > 255 {
			return 255
		}
		return uint8(s)
	}
	return color.RGBA{scale(c.R), scale(c.G), scale(c.B), c.A}
}

// Address returns the relay address, defaulting the host to localhost and
// the port to 7373.
func (ui *ConnectUI) Address() string {
	addr := strings.TrimSpace(ui.addressInput.GetText())
	if addr == "" {
		return "localhost:7373"
	}
	if !strings.Contains(addr, ":") {
		addr += ":7373"
	}
	return addr
}

func (ui *ConnectUI) Room() string {
	return strings.TrimSpace(ui.roomInput.GetText())
}

func (ui *ConnectUI) SetAddress(addr string) {
	ui.addressInput.SetText(addr)
}

func (ui *ConnectUI) SetStatus(msg string) {
	if ui.statusLabel != nil {
		ui.statusLabel.Label = msg
	}
}

func (ui *ConnectUI) SetBusy(busy bool) {
	if ui.connectBtn != nil {
		ui.connectBtn.GetWidget().Disabled = busy
	}
	if ui.findBtn != nil {
		ui.findBtn.GetWidget().Disabled = busy
	}
}

func (ui *ConnectUI) Update() {
	ui.UI.Update()
}
