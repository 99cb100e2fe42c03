package display

import (
	"image"
	"image/draw"
	"log"

	"github.com/drummonds/gokiosk/internal/drawing"
	"github.com/drummonds/gokiosk/internal/fb"
	"github.com/drummonds/gokiosk/internal/fbimage"
	"github.com/drummonds/gokiosk/internal/input"
)

// FrameBuffer shows frames on a Linux frame buffer. It has no input.
type FrameBuffer struct {
	dev         *fb.Device
	frameBuffer draw.Image

	slowPathNotified bool
}

func OpenFrameBuffer(path string) (*FrameBuffer, error) {
	dev, err := fb.Open(path)
	if err != nil {
		return nil, err
	}
	if info, err := dev.VarScreeninfo(); err == nil {
		log.Printf("framebuffer screeninfo: %+v", info)
	}
	img, err := dev.Image()
	if err != nil {
		dev.Close()
		return nil, err
	}
	return &FrameBuffer{dev: dev, frameBuffer: img}, nil
}

func newFrameBuffer(img draw.Image) *FrameBuffer {
	return &FrameBuffer{frameBuffer: img}
}

func (f *FrameBuffer) Poll() ([]input.Event, image.Point) {
	return nil, f.frameBuffer.Bounds().Size()
}

func (f *FrameBuffer) Present(img *image.RGBA) error {
	switch x := f.frameBuffer.(type) {
	case *fbimage.BGR565:
		drawing.CopyRGBAtoBGR565(x, img)
	case *fbimage.BGRA:
		drawing.CopyRGBAtoBGRA(x, img)
	default:
		if !f.slowPathNotified {
			log.Printf("framebuffer not using pixel format BGR565, falling back to slow path for devFrameBuffer type %T", f.frameBuffer)
			f.slowPathNotified = true
		}
		draw.Draw(f.frameBuffer, f.frameBuffer.Bounds(), img, image.Point{}, draw.Src)
	}
	return nil
}

func (f *FrameBuffer) Close() error {
	if f.dev == nil {
		return nil
	}
	return f.dev.Close()
}
