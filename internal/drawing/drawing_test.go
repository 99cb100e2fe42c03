package drawing

import (
	"image"
	"image/color"
	"testing"

	"github.com/drummonds/gokiosk/internal/fbimage"
	"github.com/stretchr/testify/assert"
	xdraw "golang.org/x/image/draw"
)

func TestFitSizeEqual(t *testing.T) {
	result := FitSize(image.Pt(1920, 1080), image.Pt(1920, 1080))
	assert.Equal(t, image.Pt(1920, 1080), result)
}

func TestFitSizeWider(t *testing.T) {
	// Keep width, shrink height
	result := FitSize(image.Pt(3840, 1080), image.Pt(1920, 1080))
	assert.Equal(t, image.Pt(1920, 540), result)
}

func TestFitSizeTaller(t *testing.T) {
	result := FitSize(image.Pt(300, 600), image.Pt(400, 300))
	assert.Equal(t, image.Pt(150, 300), result)
}

func TestFitSizeUpscales(t *testing.T) {
	result := FitSize(image.Pt(40, 30), image.Pt(400, 400))
	assert.Equal(t, image.Pt(400, 300), result)
}

func TestFitSizeDegenerate(t *testing.T) {
	assert.Equal(t, image.Point{}, FitSize(image.Pt(0, 10), image.Pt(10, 10)))
	assert.Equal(t, image.Point{}, FitSize(image.Pt(10, 10), image.Pt(10, 0)))
}

func TestFitSizeIsIdempotent(t *testing.T) {
	boxes := []image.Point{{100, 100}, {1728, 441}, {112, 84}, {7, 13}, {1, 1}}
	for w := 1; w < 60; w += 7 {
		for h := 1; h < 60; h += 5 {
			for _, box := range boxes {
				once := FitSize(image.Pt(w*37, h*11), box)
				if once.X == 0 || once.Y == 0 {
					continue
				}
				twice := FitSize(once, box)
				assert.Equal(t, once, twice, "src %dx%d box %v", w*37, h*11, box)
			}
		}
	}
}

func TestCentreIn(t *testing.T) {
	r := CentreIn(image.Pt(100, 50), image.Rect(0, 0, 1000, 400))
	assert.Equal(t, image.Rect(450, 175, 550, 225), r)
}

func TestScale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = 0xff
	}
	dst := Scale(src, image.Pt(2, 3), xdraw.BiLinear)
	assert.Equal(t, image.Rect(0, 0, 2, 3), dst.Bounds())
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, dst.RGBAAt(1, 2))

	empty := Scale(src, image.Point{}, xdraw.BiLinear)
	assert.True(t, empty.Bounds().Empty())
}

func TestOrient(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	assert.Equal(t, src, Orient(src, 1))
	assert.Equal(t, image.Rect(0, 0, 2, 4), Orient(src, 6).Bounds())
	assert.Equal(t, image.Rect(0, 0, 4, 2), Orient(src, 3).Bounds())
}

func TestCopyRGBAtoBGRA(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(1, 1, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	dst := &fbimage.BGRA{Pix: make([]uint8, 2*16), Stride: 16, Rect: image.Rect(0, 0, 2, 2)}
	CopyRGBAtoBGRA(dst, src)
	o := dst.PixOffset(1, 1)
	assert.Equal(t, []uint8{3, 2, 1, 255}, dst.Pix[o:o+4])
}

func TestCopyRGBAtoBGR565(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.SetRGBA(0, 0, color.RGBA{R: 0xff, A: 0xff})
	dst := fbimage.NewBGR565(image.Rect(0, 0, 1, 1))
	CopyRGBAtoBGR565(dst, src)
	assert.Equal(t, []uint8{0x00, 0xf8}, dst.Pix)
}
