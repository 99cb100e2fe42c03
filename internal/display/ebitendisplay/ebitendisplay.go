// Package ebitendisplay runs the kiosk in an Ebitengine window, fullscreen
// by default.
package ebitendisplay

import (
	"context"
	"image"
	"time"

	"github.com/drummonds/gokiosk/internal/display"
	"github.com/drummonds/gokiosk/internal/input"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type Options struct {
	Title      string
	Size       image.Point // window size when not fullscreen
	Fullscreen bool
	HideCursor bool
	FrameDelay time.Duration
}

// Display implements ebiten.Game. Ebitengine calls Update and Draw from
// one goroutine, which makes it the owner of the Stepper.
type Display struct {
	opts Options

	ctx     context.Context
	stepper display.Stepper
	size    image.Point
	screen  *ebiten.Image
	touches []ebiten.TouchID
}

func New(opts Options) *Display {
	return &Display{opts: opts, size: opts.Size}
}

// Run must be called from the main goroutine.
func (d *Display) Run(ctx context.Context, s display.Stepper) error {
	d.ctx = ctx
	d.stepper = s

	ebiten.SetWindowSize(d.opts.Size.X, d.opts.Size.Y)
	ebiten.SetWindowTitle(d.opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetFullscreen(d.opts.Fullscreen)
	if d.opts.HideCursor {
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
	}
	ebiten.SetTPS(tps(d.opts.FrameDelay))

	if err := ebiten.RunGame(d); err != nil {
		return err
	}
	return ctx.Err()
}

func tps(delay time.Duration) int {
	if delay <= 0 {
		return ebiten.DefaultTPS
	}
	return max(int(time.Second/delay), 1)
}

func (d *Display) events() []input.Event {
	var events []input.Event
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		events = append(events, input.ClickAt(ebiten.CursorPosition()))
	}
	d.touches = inpututil.AppendJustPressedTouchIDs(d.touches[:0])
	for _, id := range d.touches {
		events = append(events, input.ClickAt(ebiten.TouchPosition(id)))
	}
	if ebiten.IsWindowBeingClosed() || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		events = append(events, input.Event{Kind: input.Quit})
	}
	return events
}

func (d *Display) Update() error {
	if d.ctx.Err() != nil {
		return ebiten.Termination
	}
	if d.stepper.Step(time.Now(), d.events(), d.size) {
		return ebiten.Termination
	}
	return nil
}

func (d *Display) Draw(screen *ebiten.Image) {
	frame := d.stepper.Image()
	b := frame.Bounds()
	if d.screen == nil || d.screen.Bounds().Size() != b.Size() {
		if d.screen != nil {
			d.screen.Deallocate()
		}
		d.screen = ebiten.NewImage(b.Dx(), b.Dy())
	}
	d.screen.WritePixels(frame.Pix)
	screen.DrawImage(d.screen, nil)
}

// Layout keeps one frame pixel per screen pixel, so the frame is laid out
// again whenever the window size changes.
func (d *Display) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		d.size = image.Pt(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
