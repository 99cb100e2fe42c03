package fb

import (
	"image"
	"testing"
	"unsafe"

	"github.com/drummonds/gokiosk/internal/fbimage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageForDepth(t *testing.T) {
	mem := make([]byte, 4*8*4)

	img, err := imageFor(VarScreeninfo{Xres: 8, Yres: 4, Bits_per_pixel: 32}, 32, mem)
	require.NoError(t, err)
	bgra, ok := img.(*fbimage.BGRA)
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 8, 4), bgra.Bounds())

	img, err = imageFor(VarScreeninfo{Xres: 8, Yres: 4, Bits_per_pixel: 16}, 16, mem)
	require.NoError(t, err)
	_, ok = img.(*fbimage.BGR565)
	assert.True(t, ok)

	_, err = imageFor(VarScreeninfo{Xres: 8, Yres: 4, Bits_per_pixel: 24}, 24, mem)
	assert.Error(t, err)
}

func TestImageForShortMemory(t *testing.T) {
	_, err := imageFor(VarScreeninfo{Xres: 8, Yres: 4, Bits_per_pixel: 32}, 32, make([]byte, 10))
	assert.Error(t, err)
}

func TestStructSizesMatchKernel(t *testing.T) {
	assert.Equal(t, uintptr(160), unsafe.Sizeof(VarScreeninfo{}))
	if unsafe.Sizeof(uintptr(0)) == 8 {
		assert.Equal(t, uintptr(80), unsafe.Sizeof(FixScreeninfo{}))
	}
}

func TestOpenMissingDevice(t *testing.T) {
	_, err := Open("/nonexistent/fb9")
	assert.Error(t, err)
}
