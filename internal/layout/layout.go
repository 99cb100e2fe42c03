/*
Layout of the kiosk screen.

The screen is split top to bottom into the main image area, the thumbnail
carousel and the control bar. Everything here is derived from the viewport
size, the images and the presentation indices; the Engine only caches the
scaled bitmaps so they are not resampled every frame.
*/
package layout

import (
	"image"

	"github.com/drummonds/gokiosk/internal/drawing"
	xdraw "golang.org/x/image/draw"
)

// Config holds the fixed proportions of the screen. Fractions are of the
// viewport unless stated otherwise.
type Config struct {
	ControlFraction  float64 // control bar height
	CarouselFraction float64 // carousel strip height
	MainFill         float64 // main image box, of the main area
	ThumbFraction    float64 // thumbnail height, of the strip
	ThumbAspect      float64 // thumbnail box width / height
	SpacingFraction  float64 // gap between thumbnails, of thumbnail width
	StripTopFraction float64 // thumbnail top inset, of the strip
	StartXFraction   float64 // first thumbnail x, of the width
	ArrowMargin      int     // px between the screen edge and an arrow
	ButtonPadding    int     // px above and below the buttons
}

func DefaultConfig() Config {
	return Config{
		ControlFraction:  0.12,
		CarouselFraction: 0.18,
		MainFill:         0.9,
		ThumbFraction:    0.7,
		ThumbAspect:      4.0 / 3.0,
		SpacingFraction:  0.2,
		StripTopFraction: 0.15,
		StartXFraction:   0.05,
		ArrowMargin:      10,
		ButtonPadding:    10,
	}
}

// Source is the set of images laid out, in presentation order.
type Source interface {
	Len() int
	Image(i int) image.Image
}

type Geometry struct {
	Size     image.Point
	Main     image.Rectangle
	Carousel image.Rectangle
	Controls image.Rectangle
}

// Button identifies one of the transport controls.
type Button int

const (
	Prev Button = iota
	Next
	Start
	Stop
	numButtons
)

var buttonLabels = [numButtons]string{"< Prev", "Next >", "Start >", "Stop"}

func (b Button) String() string { return buttonLabels[b] }

// Buttons lists the transport controls in screen order.
var Buttons = []Button{Prev, Next, Start, Stop}

// HitRegions are the clickable rectangles of one frame. Thumbs has a
// rectangle for every image, including the ones scrolled off screen.
type HitRegions struct {
	Buttons    [numButtons]image.Rectangle
	LeftArrow  image.Rectangle
	RightArrow image.Rectangle
	Thumbs     []image.Rectangle
}

// Frame is everything needed to draw one frame.
type Frame struct {
	Geometry
	Regions  HitRegions
	Main     *image.RGBA
	MainRect image.Rectangle
	// Thumbs are fit-scaled into the thumbnail box; each is drawn centred
	// in Regions.Thumbs[i].
	Thumbs []*image.RGBA
}

// ThumbRect is where thumbnail i is drawn, centred in its slot.
func (f *Frame) ThumbRect(i int) image.Rectangle {
	return drawing.CentreIn(f.Thumbs[i].Bounds().Size(), f.Regions.Thumbs[i])
}

type Engine struct {
	cfg Config
	src Source

	mainIndex int
	mainSize  image.Point
	main      *image.RGBA

	thumbSize image.Point
	thumbs    []*image.RGBA

	mainScales  int
	thumbScales int
}

func NewEngine(cfg Config, src Source) *Engine {
	return &Engine{cfg: cfg, src: src, mainIndex: -1}
}

func (e *Engine) Config() Config { return e.cfg }

func scaleInt(v int, f float64) int { return int(float64(v) * f) }

func rect(x, y, w, h int) image.Rectangle {
	return image.Rectangle{Min: image.Pt(x, y), Max: image.Pt(x+max(w, 0), y+max(h, 0))}
}

// Geometry partitions a viewport of the given size.
func (e *Engine) Geometry(size image.Point) Geometry {
	w, h := size.X, size.Y
	controlH := scaleInt(h, e.cfg.ControlFraction)
	carouselH := scaleInt(h, e.cfg.CarouselFraction)
	mainH := h - carouselH - controlH
	return Geometry{
		Size:     size,
		Main:     rect(0, 0, w, mainH),
		Carousel: rect(0, mainH, w, carouselH),
		Controls: rect(0, h-controlH, w, controlH),
	}
}

// ThumbBox is the box every thumbnail is fitted into.
func (e *Engine) ThumbBox(g Geometry) image.Point {
	th := scaleInt(g.Carousel.Dy(), e.cfg.ThumbFraction)
	return image.Pt(scaleInt(th, e.cfg.ThumbAspect), th)
}

// Regions computes the hit regions for the given carousel offset.
func (e *Engine) Regions(g Geometry, offset int) HitRegions {
	var r HitRegions
	w, h := g.Size.X, g.Size.Y

	box := e.ThumbBox(g)
	spacing := scaleInt(box.X, e.cfg.SpacingFraction)
	y := g.Carousel.Min.Y + scaleInt(g.Carousel.Dy(), e.cfg.StripTopFraction)
	startX := scaleInt(w, e.cfg.StartXFraction)
	r.Thumbs = make([]image.Rectangle, e.src.Len())
	for i := range r.Thumbs {
		x := startX + (i-offset)*(box.X+spacing)
		r.Thumbs[i] = rect(x, y, box.X, box.Y)
	}

	arrow := box.Y / 2
	ay := y + box.Y/2 - arrow/2
	r.LeftArrow = rect(e.cfg.ArrowMargin, ay, arrow, arrow)
	r.RightArrow = rect(w-arrow-e.cfg.ArrowMargin, ay, arrow, arrow)

	controlH := g.Controls.Dy()
	bw := w / (len(Buttons) + 1)
	bh := controlH - 2*e.cfg.ButtonPadding
	by := h - controlH + e.cfg.ButtonPadding
	for i, b := range Buttons {
		cx := (i+1)*bw - bw/2
		r.Buttons[b] = rect(cx-bw/4, by, bw/2, bh)
	}
	return r
}

// Compute lays out a frame. The main image is rescaled only when the index
// or the viewport size changes, the thumbnails only when the viewport size
// changes.
func (e *Engine) Compute(size image.Point, current, offset int) *Frame {
	g := e.Geometry(size)
	f := &Frame{
		Geometry: g,
		Regions:  e.Regions(g, offset),
	}

	if e.main == nil || current != e.mainIndex || size != e.mainSize {
		box := image.Pt(scaleInt(g.Main.Dx(), e.cfg.MainFill), scaleInt(g.Main.Dy(), e.cfg.MainFill))
		img := e.src.Image(current)
		e.main = drawing.Scale(img, drawing.FitSize(img.Bounds().Size(), box), xdraw.CatmullRom)
		e.mainIndex, e.mainSize = current, size
		e.mainScales++
	}
	f.Main = e.main
	f.MainRect = drawing.CentreIn(e.main.Bounds().Size(), g.Main)

	if e.thumbs == nil || size != e.thumbSize {
		box := e.ThumbBox(g)
		e.thumbs = make([]*image.RGBA, e.src.Len())
		for i := range e.thumbs {
			img := e.src.Image(i)
			e.thumbs[i] = drawing.Scale(img, drawing.FitSize(img.Bounds().Size(), box), xdraw.ApproxBiLinear)
		}
		e.thumbSize = size
		e.thumbScales++
	}
	f.Thumbs = e.thumbs
	return f
}
