// Package display puts rendered frames on a screen and collects the
// pointer events for the next frame.
package display

import (
	"context"
	"image"
	"time"

	"github.com/drummonds/gokiosk/internal/input"
)

// Stepper runs one frame. frame.PictureFrame implements it.
type Stepper interface {
	Step(now time.Time, events []input.Event, size image.Point) (quit bool)
	Image() *image.RGBA
}

// Display drives a Stepper until the user quits or ctx is cancelled. Run
// blocks and must be called from the goroutine that owns the Stepper.
type Display interface {
	Run(ctx context.Context, s Stepper) error
}

// Screen is a display backend without its own main loop.
type Screen interface {
	// Poll returns the events since the last call and the viewport size.
	Poll() ([]input.Event, image.Point)
	Present(img *image.RGBA) error
}

// Loop paces a Screen at one frame per delay.
type Loop struct {
	Screen Screen
	Delay  time.Duration
}

func (l *Loop) Run(ctx context.Context, s Stepper) error {
	tick := time.NewTicker(l.Delay)
	defer tick.Stop()
	for {
		events, size := l.Screen.Poll()
		if s.Step(time.Now(), events, size) {
			return nil
		}
		if err := l.Screen.Present(s.Image()); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
		}
	}
}
