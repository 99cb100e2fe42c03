// Package fb maps the Linux frame buffer device into memory.
package fb

import (
	"fmt"
	"image"
	"image/draw"
	"unsafe"

	"github.com/drummonds/gokiosk/internal/fbimage"
	"golang.org/x/sys/unix"
)

// ioctl requests from linux/fb.h
const (
	FBIOGET_VSCREENINFO = 0x4600
	FBIOGET_FSCREENINFO = 0x4602
)

// FixScreeninfo is struct fb_fix_screeninfo.
type FixScreeninfo struct {
	Id           [16]byte
	Smem_start   uintptr
	Smem_len     uint32
	Type         uint32
	Type_aux     uint32
	Visual       uint32
	Xpanstep     uint16
	Ypanstep     uint16
	Ywrapstep    uint16
	Line_length  uint32
	Mmio_start   uintptr
	Mmio_len     uint32
	Accel        uint32
	Capabilities uint16
	Reserved     [2]uint16
}

type Bitfield struct {
	Offset    uint32
	Length    uint32
	Msb_right uint32
}

// VarScreeninfo is struct fb_var_screeninfo.
type VarScreeninfo struct {
	Xres           uint32
	Yres           uint32
	Xres_virtual   uint32
	Yres_virtual   uint32
	Xoffset        uint32
	Yoffset        uint32
	Bits_per_pixel uint32
	Grayscale      uint32
	Red            Bitfield
	Green          Bitfield
	Blue           Bitfield
	Transp         Bitfield
	Nonstd         uint32
	Activate       uint32
	Height         uint32
	Width          uint32
	Accel_flags    uint32
	Pixclock       uint32
	Left_margin    uint32
	Right_margin   uint32
	Upper_margin   uint32
	Lower_margin   uint32
	Hsync_len      uint32
	Vsync_len      uint32
	Sync           uint32
	Vmode          uint32
	Rotate         uint32
	Colorspace     uint32
	Reserved       [4]uint32
}

type Device struct {
	Fd    uintptr
	FInfo FixScreeninfo
	mmap  []byte
}

func Open(path string) (*Device, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	d := &Device{Fd: uintptr(fd)}
	if err := d.ioctl(FBIOGET_FSCREENINFO, unsafe.Pointer(&d.FInfo)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("FBIOGET_FSCREENINFO: %w", err)
	}
	return d, nil
}

func (d *Device) ioctl(req uintptr, arg unsafe.Pointer) error {
	if _, _, eno := unix.Syscall(unix.SYS_IOCTL, d.Fd, req, uintptr(arg)); eno != 0 {
		return eno
	}
	return nil
}

func (d *Device) VarScreeninfo() (VarScreeninfo, error) {
	var info VarScreeninfo
	if err := d.ioctl(FBIOGET_VSCREENINFO, unsafe.Pointer(&info)); err != nil {
		return info, fmt.Errorf("FBIOGET_VSCREENINFO: %w", err)
	}
	return info, nil
}

// Image maps the frame buffer memory and returns it as an image in the
// device's pixel format. Writes to the image appear on screen.
func (d *Device) Image() (draw.Image, error) {
	info, err := d.VarScreeninfo()
	if err != nil {
		return nil, err
	}
	if d.mmap == nil {
		d.mmap, err = unix.Mmap(int(d.Fd), 0, int(d.FInfo.Smem_len), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
		if err != nil {
			return nil, fmt.Errorf("mmap: %w", err)
		}
	}
	return imageFor(info, int(d.FInfo.Line_length), d.mmap)
}

func imageFor(info VarScreeninfo, stride int, mem []byte) (draw.Image, error) {
	r := image.Rect(0, 0, int(info.Xres), int(info.Yres))
	if need := stride * r.Dy(); len(mem) < need {
		return nil, fmt.Errorf("frame buffer memory %d bytes, need %d", len(mem), need)
	}
	switch info.Bits_per_pixel {
	case 16:
		return &fbimage.BGR565{Pix: mem, Stride: stride, Rect: r}, nil
	case 32:
		return &fbimage.BGRA{Pix: mem, Stride: stride, Rect: r}, nil
	}
	return nil, fmt.Errorf("unsupported frame buffer depth %d bits per pixel", info.Bits_per_pixel)
}

func (d *Device) Close() error {
	if d.mmap != nil {
		if err := unix.Munmap(d.mmap); err != nil {
			return err
		}
		d.mmap = nil
	}
	return unix.Close(int(d.Fd))
}
