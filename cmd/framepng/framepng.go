// Program framepng renders one kiosk frame to a PNG file instead of a
// screen. It is handy for checking the layout without a display.
package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"time"

	"github.com/drummonds/gokiosk/internal/frame"
	"github.com/drummonds/gokiosk/internal/layout"
	"github.com/drummonds/gokiosk/internal/presentation"
	"github.com/drummonds/gokiosk/internal/remote"
	"github.com/drummonds/gokiosk/internal/store"
	"github.com/spf13/pflag"
)

// renderFrame lays out a single frame with image current selected and the
// carousel scrolled by offset.
func renderFrame(images *store.Store, size image.Point, current, offset int) (*image.RGBA, error) {
	state, err := presentation.New(images, 0, nil)
	if err != nil {
		return nil, err
	}
	state.Select(current)
	state.ScrollCarousel(offset)
	pf := frame.NewPictureFrame(image.Rectangle{Max: size}, state, layout.NewEngine(layout.DefaultConfig(), images))
	pf.Step(time.Now(), nil, size)
	return pf.Image(), nil
}

func main() {
	server := pflag.String("server", "http://localhost:5000", "upload server base url")
	out := pflag.StringP("out", "o", "framebuffer.png", "output file")
	width := pflag.Int("width", 1000, "frame width")
	height := pflag.Int("height", 700, "frame height")
	current := pflag.Int("select", 0, "index of the main image")
	offset := pflag.Int("offset", 0, "carousel offset")
	pflag.Parse()

	client, err := remote.NewClient(*server, nil)
	if err != nil {
		log.Fatal(err)
	}
	images, err := store.Load(context.Background(), client)
	if err != nil {
		log.Fatal(err)
	}
	img, err := renderFrame(images, image.Pt(*width, *height), *current, *offset)
	if err != nil {
		log.Fatal(err)
	}

	// Encode frame buffer as PNG and save
	f, err := os.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %s\n", *out)
}
