package ebitendisplay

import (
	"image"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
)

func TestTPS(t *testing.T) {
	assert.Equal(t, ebiten.DefaultTPS, tps(0))
	assert.Equal(t, ebiten.DefaultTPS, tps(-time.Second))
	assert.Equal(t, 33, tps(30*time.Millisecond))
	assert.Equal(t, 1, tps(2*time.Second))
}

func TestLayoutFollowsWindow(t *testing.T) {
	d := New(Options{Size: image.Pt(1000, 700)})
	assert.Equal(t, image.Pt(1000, 700), d.size)

	w, h := d.Layout(1280, 720)
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)
	assert.Equal(t, image.Pt(1280, 720), d.size)

	// a minimised window reports zero and keeps the last size
	d.Layout(0, 0)
	assert.Equal(t, image.Pt(1280, 720), d.size)
}
