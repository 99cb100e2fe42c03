/*
A PictureFrame represents the complete rectangular area of the kiosk screen.

The screen is rendered by pasting panels on it. Every tick Step does the
whole frame in order:

- route the pending input events against the previous frame's hit regions
- advance the slideshow timer
- lay out the frame for the current viewport size
- paint the panels into Buffer

Step only touches the presentation state from the calling goroutine, so a
display backend must call it from a single loop.
*/
package frame

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	"github.com/drummonds/gokiosk/internal/drawing"
	"github.com/drummonds/gokiosk/internal/input"
	"github.com/drummonds/gokiosk/internal/layout"
	"github.com/drummonds/gokiosk/internal/panel"
	"github.com/drummonds/gokiosk/internal/presentation"
)

// DefaultFrameDelay caps the loop at about 33 frames a second.
const DefaultFrameDelay = 30 * time.Millisecond

type Panelled interface {
	Render(buffer *image.RGBA)
}

// Observer sees every rendered frame. It runs on the render loop and must
// not keep buffer.
type Observer interface {
	Rendered(now time.Time, snap presentation.Snapshot, buffer *image.RGBA)
}

// This is the structure which holds the screen data.
type PictureFrame struct {
	Bounds   image.Rectangle
	W, H     int
	Buffer   *image.RGBA // This is what is output to the screen
	BGColour color.RGBA
	panels   []Panelled

	state    *presentation.State
	engine   *layout.Engine
	regions  layout.HitRegions
	observer Observer
}

func NewPictureFrame(bounds image.Rectangle, state *presentation.State, engine *layout.Engine) *PictureFrame {
	pf := new(PictureFrame)
	pf.BGColour = drawing.Background
	pf.state = state
	pf.engine = engine
	pf.panels = make([]Panelled, 0, 16)
	pf.Resize(bounds.Size())
	return pf
}

func (pf *PictureFrame) SetObserver(o Observer) { pf.observer = o }

// Image is the last rendered frame.
func (pf *PictureFrame) Image() *image.RGBA { return pf.Buffer }

func (pf *PictureFrame) State() *presentation.State { return pf.state }

// Regions are the hit regions of the last rendered frame.
func (pf *PictureFrame) Regions() layout.HitRegions { return pf.regions }

// Resize reallocates the buffer when the viewport size changes.
func (pf *PictureFrame) Resize(size image.Point) {
	if pf.Buffer != nil && size == pf.Bounds.Size() {
		return
	}
	pf.Bounds = image.Rectangle{Max: size}
	pf.W = size.X
	pf.H = size.Y
	pf.Buffer = image.NewRGBA(pf.Bounds)
	pf.RepaintBackground()
}

func (pf *PictureFrame) SetBGColour(r, g, b uint8) {
	pf.BGColour = color.RGBA{R: r, G: g, B: b, A: 255}
	pf.RepaintBackground()
}

func (pf *PictureFrame) RepaintBackground() {
	draw.Draw(pf.Buffer, pf.Bounds, &image.Uniform{pf.BGColour}, image.Point{}, draw.Src)
}

func (pf *PictureFrame) AddPanel(p Panelled) {
	pf.panels = append(pf.panels, p)
}

// Render paints the background and then every panel in order.
func (pf *PictureFrame) Render() {
	pf.RepaintBackground()
	for _, p := range pf.panels {
		p.Render(pf.Buffer)
	}
}

// Step runs one tick and leaves the new frame in Buffer. It reports whether
// a quit event was seen.
func (pf *PictureFrame) Step(now time.Time, events []input.Event, size image.Point) (quit bool) {
	for _, ev := range events {
		switch ev.Kind {
		case input.Quit:
			quit = true
		case input.Click:
			a := input.Route(ev.Pos, pf.regions)
			input.Apply(a, pf.state, now)
			if a.Kind == input.SelectThumb {
				log.Printf("Thumbnail clicked: %s", pf.state.Identifier())
			}
		}
	}

	pf.state.Tick(now)

	pf.Resize(size)
	f := pf.engine.Compute(size, pf.state.Current(), pf.state.Offset())
	pf.regions = f.Regions
	pf.layoutPanels(f)
	pf.Render()

	if pf.observer != nil {
		pf.observer.Rendered(now, pf.state.Snapshot(), pf.Buffer)
	}
	return quit
}

func (pf *PictureFrame) layoutPanels(f *layout.Frame) {
	pf.panels = pf.panels[:0]
	pf.AddPanel(panel.NewImagePanel(f.Main, f.MainRect))

	// Thumbnails off screen keep their hit regions but are not drawn.
	for i := range f.Thumbs {
		r := f.ThumbRect(i)
		if r.Overlaps(pf.Bounds) {
			pf.AddPanel(panel.NewImagePanel(f.Thumbs[i], r))
		}
	}
	if slot := f.Regions.Thumbs[pf.state.Current()]; slot.Overlaps(pf.Bounds) {
		pf.AddPanel(&panel.OutlinePanel{Location: slot, Width: 3, Colour: drawing.Highlight})
	}

	pf.AddPanel(&panel.ArrowPanel{Location: f.Regions.LeftArrow, Left: true, Colour: drawing.White})
	pf.AddPanel(&panel.ArrowPanel{Location: f.Regions.RightArrow, Colour: drawing.White})

	for _, b := range layout.Buttons {
		pf.AddPanel(&panel.ButtonPanel{
			Label:    b.String(),
			Location: f.Regions.Buttons[b],
			Fill:     drawing.ButtonFill,
			Text:     drawing.White,
			Radius:   6,
		})
	}
}
