package layout

import (
	"image"
	"testing"

	"github.com/drummonds/gokiosk/internal/drawing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type images []image.Image

func (s images) Len() int                { return len(s) }
func (s images) Image(i int) image.Image { return s[i] }

func blank(w, h int) image.Image { return image.NewRGBA(image.Rect(0, 0, w, h)) }

func testSource() images {
	return images{blank(800, 600), blank(100, 200), blank(640, 480)}
}

var screen = image.Pt(1000, 700)

func TestGeometryPartition(t *testing.T) {
	e := NewEngine(DefaultConfig(), testSource())
	g := e.Geometry(screen)
	assert.Equal(t, image.Rect(0, 0, 1000, 490), g.Main)
	assert.Equal(t, image.Rect(0, 490, 1000, 616), g.Carousel)
	assert.Equal(t, image.Rect(0, 616, 1000, 700), g.Controls)
	assert.Equal(t, image.Pt(117, 88), e.ThumbBox(g))
}

func TestRegions(t *testing.T) {
	e := NewEngine(DefaultConfig(), testSource())
	r := e.Regions(e.Geometry(screen), 0)

	assert.Equal(t, image.Rect(50, 626, 150, 690), r.Buttons[Prev])
	assert.Equal(t, image.Rect(250, 626, 350, 690), r.Buttons[Next])
	assert.Equal(t, image.Rect(450, 626, 550, 690), r.Buttons[Start])
	assert.Equal(t, image.Rect(650, 626, 750, 690), r.Buttons[Stop])

	assert.Equal(t, image.Rect(10, 530, 54, 574), r.LeftArrow)
	assert.Equal(t, image.Rect(946, 530, 990, 574), r.RightArrow)

	require.Len(t, r.Thumbs, 3)
	assert.Equal(t, image.Rect(50, 508, 167, 596), r.Thumbs[0])
	assert.Equal(t, image.Rect(190, 508, 307, 596), r.Thumbs[1])
	assert.Equal(t, image.Rect(330, 508, 447, 596), r.Thumbs[2])
}

func TestRegionsFollowCarouselOffset(t *testing.T) {
	e := NewEngine(DefaultConfig(), testSource())
	g := e.Geometry(screen)
	r0 := e.Regions(g, 0)
	r2 := e.Regions(g, 2)
	for i := range r0.Thumbs {
		assert.Equal(t, r0.Thumbs[i].Add(image.Pt(-2*140, 0)), r2.Thumbs[i])
	}
	// scrolled off screen but still positioned
	assert.Equal(t, image.Rect(-230, 508, -113, 596), r2.Thumbs[0])
	assert.Equal(t, r0.Thumbs[0], r2.Thumbs[2])
}

func TestComputeMainImage(t *testing.T) {
	e := NewEngine(DefaultConfig(), testSource())
	f := e.Compute(screen, 0, 0)
	assert.Equal(t, image.Pt(588, 441), f.Main.Bounds().Size())
	assert.Equal(t, image.Rect(206, 25, 794, 466), f.MainRect)
}

func TestComputeThumbnailsFitFourThreeBox(t *testing.T) {
	e := NewEngine(DefaultConfig(), testSource())
	f := e.Compute(screen, 0, 0)
	require.Len(t, f.Thumbs, 3)
	assert.Equal(t, image.Pt(117, 87), f.Thumbs[0].Bounds().Size())
	assert.Equal(t, image.Pt(44, 88), f.Thumbs[1].Bounds().Size())
	assert.Equal(t, image.Pt(117, 87), f.Thumbs[2].Bounds().Size())

	// letterboxed inside the slot, never larger than it
	for i := range f.Thumbs {
		assert.True(t, f.ThumbRect(i).In(f.Regions.Thumbs[i]), "thumb %d", i)
	}
	assert.Equal(t, image.Rect(86, 508, 130, 596), f.ThumbRect(1).Sub(image.Pt(140, 0)))
}

func TestComputeCachesScaling(t *testing.T) {
	e := NewEngine(DefaultConfig(), testSource())

	e.Compute(screen, 0, 0)
	e.Compute(screen, 0, 1)
	e.Compute(screen, 0, 2)
	assert.Equal(t, 1, e.mainScales)
	assert.Equal(t, 1, e.thumbScales)

	e.Compute(screen, 1, 2)
	assert.Equal(t, 2, e.mainScales)
	assert.Equal(t, 1, e.thumbScales, "selection change keeps thumbnails")

	e.Compute(image.Pt(800, 600), 1, 2)
	assert.Equal(t, 3, e.mainScales)
	assert.Equal(t, 2, e.thumbScales)
}

func TestMainScalingIsAFixedPoint(t *testing.T) {
	e := NewEngine(DefaultConfig(), testSource())
	f := e.Compute(screen, 0, 0)

	again := NewEngine(DefaultConfig(), images{f.Main})
	g := again.Compute(screen, 0, 0)
	assert.Equal(t, f.Main.Bounds(), g.Main.Bounds())
	assert.Equal(t, f.MainRect, g.MainRect)
}

func TestTinyViewport(t *testing.T) {
	e := NewEngine(DefaultConfig(), testSource())
	f := e.Compute(image.Pt(10, 10), 0, 0)
	assert.True(t, f.Regions.Buttons[Prev].Empty())
	assert.Equal(t, image.Point{}, f.Thumbs[0].Bounds().Size())
	assert.Equal(t, image.Pt(9, 6), f.Main.Bounds().Size())
	assert.Equal(t, drawing.CentreIn(image.Pt(9, 6), f.Geometry.Main), f.MainRect)
}

func TestButtonString(t *testing.T) {
	assert.Equal(t, "< Prev", Prev.String())
	assert.Equal(t, "Stop", Stop.String())
}
