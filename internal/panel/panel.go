package panel

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
	xdraw "golang.org/x/image/draw"
)

// ImagePanel draws an image into Location, rescaling only if the sizes
// differ. Transparent pixels show what is already in the buffer.
type ImagePanel struct {
	img      image.Image
	Location image.Rectangle // Where panel is to be rendered
}

func NewImagePanel(img image.Image, location image.Rectangle) *ImagePanel {
	return &ImagePanel{img: img, Location: location}
}

func (p *ImagePanel) Render(buffer *image.RGBA) {
	if p.Location.Size() == p.img.Bounds().Size() {
		draw.Draw(buffer, p.Location, p.img, p.img.Bounds().Min, draw.Over)
		return
	}
	xdraw.BiLinear.Scale(buffer, p.Location, p.img, p.img.Bounds(), draw.Over, nil)
}

// ButtonPanel is a rounded, filled rectangle with a centred label.
type ButtonPanel struct {
	Label    string
	Location image.Rectangle
	Fill     color.Color
	Text     color.Color
	Radius   float64
}

func (p *ButtonPanel) Render(buffer *image.RGBA) {
	if p.Location.Empty() {
		return
	}
	dc := gg.NewContextForRGBA(buffer)
	r := p.Location
	dc.DrawRoundedRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()), p.Radius)
	dc.SetColor(p.Fill)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(p.Text)
	c := r.Min.Add(r.Size().Div(2))
	dc.DrawStringAnchored(p.Label, float64(c.X), float64(c.Y), 0.5, 0.5)
}

// ArrowPanel is a solid triangle pointing left or right, filling Location.
type ArrowPanel struct {
	Location image.Rectangle
	Left     bool
	Colour   color.Color
}

func (p *ArrowPanel) Render(buffer *image.RGBA) {
	if p.Location.Empty() {
		return
	}
	dc := gg.NewContextForRGBA(buffer)
	r := p.Location
	left, right := float64(r.Min.X), float64(r.Max.X)
	top, bottom := float64(r.Min.Y), float64(r.Max.Y)
	mid := (top + bottom) / 2
	if p.Left {
		dc.MoveTo(right, top)
		dc.LineTo(right, bottom)
		dc.LineTo(left, mid)
	} else {
		dc.MoveTo(left, top)
		dc.LineTo(left, bottom)
		dc.LineTo(right, mid)
	}
	dc.ClosePath()
	dc.SetColor(p.Colour)
	dc.Fill()
}

// OutlinePanel strokes a border of Width pixels just inside Location.
type OutlinePanel struct {
	Location image.Rectangle
	Width    float64
	Colour   color.Color
}

func (p *OutlinePanel) Render(buffer *image.RGBA) {
	if p.Location.Empty() {
		return
	}
	dc := gg.NewContextForRGBA(buffer)
	r := p.Location
	half := p.Width / 2
	dc.DrawRectangle(float64(r.Min.X)+half, float64(r.Min.Y)+half, float64(r.Dx())-p.Width, float64(r.Dy())-p.Width)
	dc.SetLineWidth(p.Width)
	dc.SetColor(p.Colour)
	dc.Stroke()
}
