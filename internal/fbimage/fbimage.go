// Package fbimage provides image.Image implementations for the pixel layouts
// found on Linux frame buffers and X11 ZPixmap visuals.
package fbimage

import (
	"image"
	"image/color"
)

// BGRA is an in-memory image whose At method returns color.NRGBA values,
// stored as B, G, R, A bytes.
type BGRA struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

func NewBGRA(r image.Rectangle) *BGRA {
	return &BGRA{
		Pix:    make([]uint8, 4*r.Dx()*r.Dy()),
		Stride: 4 * r.Dx(),
		Rect:   r,
	}
}

func (i *BGRA) ColorModel() color.Model { return color.NRGBAModel }

func (i *BGRA) Bounds() image.Rectangle { return i.Rect }

func (i *BGRA) PixOffset(x, y int) int {
	return (y-i.Rect.Min.Y)*i.Stride + (x-i.Rect.Min.X)*4
}

func (i *BGRA) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(i.Rect)) {
		return color.NRGBA{}
	}
	p := i.Pix[i.PixOffset(x, y):]
	return color.NRGBA{R: p[2], G: p[1], B: p[0], A: p[3]}
}

func (i *BGRA) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(i.Rect)) {
		return
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	p := i.Pix[i.PixOffset(x, y):]
	p[0], p[1], p[2], p[3] = n.B, n.G, n.R, n.A
}

// BGR565 stores 16 bits per pixel, little endian, blue in the low bits.
type BGR565 struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

func NewBGR565(r image.Rectangle) *BGR565 {
	return &BGR565{
		Pix:    make([]uint8, 2*r.Dx()*r.Dy()),
		Stride: 2 * r.Dx(),
		Rect:   r,
	}
}

func (i *BGR565) ColorModel() color.Model { return color.NRGBAModel }

func (i *BGR565) Bounds() image.Rectangle { return i.Rect }

func (i *BGR565) PixOffset(x, y int) int {
	return (y-i.Rect.Min.Y)*i.Stride + (x-i.Rect.Min.X)*2
}

func (i *BGR565) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(i.Rect)) {
		return color.NRGBA{}
	}
	p := i.Pix[i.PixOffset(x, y):]
	v := uint16(p[0]) | uint16(p[1])<<8
	r := uint8(v>>11) << 3
	g := uint8((v>>5)&0x3f) << 2
	b := uint8(v&0x1f) << 3
	return color.NRGBA{R: r | r>>5, G: g | g>>6, B: b | b>>5, A: 0xff}
}

func (i *BGR565) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(i.Rect)) {
		return
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	p := i.Pix[i.PixOffset(x, y):]
	p[0] = (n.B >> 3) | ((n.G >> 2) << 5)
	p[1] = (n.G >> 5) | ((n.R >> 3) << 3)
}
