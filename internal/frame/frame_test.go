package frame

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
	"time"

	"github.com/drummonds/gokiosk/internal/drawing"
	"github.com/drummonds/gokiosk/internal/input"
	"github.com/drummonds/gokiosk/internal/layout"
	"github.com/drummonds/gokiosk/internal/presentation"
	"github.com/drummonds/gokiosk/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	screen = image.Pt(1000, 700)
	t0     = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	nextButton  = image.Pt(300, 650)
	startButton = image.Pt(500, 650)
)

func solid(c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

func newFrame(t *testing.T, pub presentation.Publisher) *PictureFrame {
	t.Helper()
	s, err := store.New([]store.Record{
		store.NewRecord("red.png", solid(color.RGBA{255, 0, 0, 255})),
		store.NewRecord("green.png", solid(color.RGBA{0, 255, 0, 255})),
		store.NewRecord("blue.png", solid(color.RGBA{0, 0, 255, 255})),
	})
	require.NoError(t, err)
	state, err := presentation.New(s, 5*time.Second, pub)
	require.NoError(t, err)
	return NewPictureFrame(image.Rectangle{Max: screen}, state, layout.NewEngine(layout.DefaultConfig(), s))
}

func click(p image.Point) []input.Event {
	return []input.Event{input.ClickAt(p.X, p.Y)}
}

func TestFirstFrame(t *testing.T) {
	pf := newFrame(t, nil)
	assert.False(t, pf.Step(t0, nil, screen))

	// main image is red and centred in the main area
	c := pf.Buffer.RGBAAt(500, 245)
	assert.Greater(t, c.R, uint8(200))
	assert.Less(t, c.G, uint8(50))

	// highlight on the first slot
	assert.Equal(t, drawing.Highlight, pf.Buffer.RGBAAt(51, 550))
	assert.Equal(t, drawing.Background, pf.Buffer.RGBAAt(500, 5))
	assert.Len(t, pf.Regions().Thumbs, 3)
}

func TestClicksBeforeFirstFrameAreIgnored(t *testing.T) {
	pf := newFrame(t, nil)
	pf.Step(t0, click(nextButton), screen)
	assert.Equal(t, 0, pf.State().Current())
}

func TestNextWrapsAround(t *testing.T) {
	var published []string
	pf := newFrame(t, presentation.PublisherFunc(func(ev presentation.SelectionChanged) {
		published = append(published, ev.Identifier)
	}))
	pf.Step(t0, nil, screen)

	pf.Step(t0, click(nextButton), screen)
	pf.Step(t0, click(nextButton), screen)
	assert.Equal(t, 2, pf.State().Current())
	slot := pf.Regions().Thumbs[2]
	assert.Equal(t, drawing.Highlight, pf.Buffer.RGBAAt(slot.Min.X+1, slot.Min.Y+40))

	pf.Step(t0, click(nextButton), screen)
	assert.Equal(t, 0, pf.State().Current())
	assert.Equal(t, []string{"green.png", "blue.png", "red.png"}, published)

	c := pf.Buffer.RGBAAt(500, 245)
	assert.Greater(t, c.R, uint8(200))
}

func TestThumbnailClickSelects(t *testing.T) {
	pf := newFrame(t, nil)
	pf.Step(t0, nil, screen)
	slot := pf.Regions().Thumbs[1]
	centre := slot.Min.Add(slot.Size().Div(2))

	pf.Step(t0, click(centre), screen)
	assert.Equal(t, 1, pf.State().Current())
	c := pf.Buffer.RGBAAt(500, 245)
	assert.Greater(t, c.G, uint8(200))
	assert.Less(t, c.R, uint8(50))
}

func TestSlideshowAdvancesOnStep(t *testing.T) {
	pf := newFrame(t, nil)
	pf.Step(t0, nil, screen)
	pf.Step(t0, click(startButton), screen)
	assert.True(t, pf.State().SlideshowActive())

	pf.Step(t0.Add(4*time.Second), nil, screen)
	assert.Equal(t, 0, pf.State().Current())
	pf.Step(t0.Add(5*time.Second), nil, screen)
	assert.Equal(t, 1, pf.State().Current())
}

func TestQuitEvent(t *testing.T) {
	pf := newFrame(t, nil)
	assert.True(t, pf.Step(t0, []input.Event{{Kind: input.Quit}}, screen))
}

func TestResize(t *testing.T) {
	pf := newFrame(t, nil)
	pf.Step(t0, nil, screen)
	buf := pf.Buffer

	pf.Step(t0, nil, screen)
	assert.Same(t, buf, pf.Buffer)

	pf.Step(t0, nil, image.Pt(640, 480))
	assert.Equal(t, image.Rect(0, 0, 640, 480), pf.Buffer.Bounds())
	assert.Equal(t, 640, pf.W)
	assert.Equal(t, 480, pf.H)
}

type recorder struct {
	snaps []presentation.Snapshot
}

func (r *recorder) Rendered(now time.Time, snap presentation.Snapshot, buffer *image.RGBA) {
	r.snaps = append(r.snaps, snap)
}

func TestObserverSeesEveryFrame(t *testing.T) {
	pf := newFrame(t, nil)
	rec := &recorder{}
	pf.SetObserver(rec)
	pf.Step(t0, nil, screen)
	pf.Step(t0, click(nextButton), screen)
	require.Len(t, rec.snaps, 2)
	assert.Equal(t, "green.png", rec.snaps[1].Identifier)
	assert.Equal(t, 3, rec.snaps[1].Count)
}

func TestSetBGColour(t *testing.T) {
	pf := newFrame(t, nil)
	pf.SetBGColour(10, 20, 30)
	assert.Equal(t, color.RGBA{10, 20, 30, 255}, pf.Buffer.RGBAAt(0, 0))
}
