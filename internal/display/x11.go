package display

import (
	"fmt"
	"image"
	"log"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/drummonds/gokiosk/internal/drawing"
	"github.com/drummonds/gokiosk/internal/fbimage"
	"github.com/drummonds/gokiosk/internal/input"
)

// X11 is a plain X window. Left clicks become click events and closing the
// window quits.
type X11 struct {
	X     *xgb.Conn
	wid   xproto.Window
	gc    xproto.Gcontext
	depth byte

	atomWmDeleteWindow xproto.Atom
	atomWmProtocols    xproto.Atom

	maxRequest int // bytes
	events     chan xgb.Event
	pending    []input.Event
	size       image.Point
	bgra       *fbimage.BGRA
}

func NewX11(title string, size image.Point) (*X11, error) {
	X, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connecting to X: %w", err)
	}
	setup := xproto.Setup(X)
	screen := setup.DefaultScreen(X)
	wid, err := xproto.NewWindowId(X)
	if err != nil {
		X.Close()
		return nil, err
	}
	xproto.CreateWindow(X, screen.RootDepth, wid, screen.Root,
		0, 0, uint16(size.X), uint16(size.Y), 0,
		xproto.WindowClassInputOutput, screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask,
		[]uint32{
			screen.BlackPixel,
			xproto.EventMaskExposure | xproto.EventMaskButtonPress | xproto.EventMaskStructureNotify,
		})
	xproto.ChangeProperty(X, xproto.PropModeReplace, wid, xproto.AtomWmName, xproto.AtomString,
		8, uint32(len(title)), []byte(title))

	// Set WM_PROTOCOLS to handle window close
	atomWmDeleteWindow, err := xproto.InternAtom(X, false, uint16(len("WM_DELETE_WINDOW")), "WM_DELETE_WINDOW").Reply()
	if err != nil {
		X.Close()
		return nil, err
	}
	atomWmProtocols, err := xproto.InternAtom(X, false, uint16(len("WM_PROTOCOLS")), "WM_PROTOCOLS").Reply()
	if err != nil {
		X.Close()
		return nil, err
	}
	data := make([]byte, 4)
	xgb.Put32(data, uint32(atomWmDeleteWindow.Atom))
	xproto.ChangeProperty(X, xproto.PropModeReplace, wid, atomWmProtocols.Atom, xproto.AtomAtom, 32, 1, data)

	gc, err := xproto.NewGcontextId(X)
	if err != nil {
		X.Close()
		return nil, err
	}
	xproto.CreateGC(X, gc, xproto.Drawable(wid), 0, nil)
	xproto.MapWindow(X, wid)

	x := &X11{
		X:                  X,
		wid:                wid,
		gc:                 gc,
		depth:              screen.RootDepth,
		atomWmDeleteWindow: atomWmDeleteWindow.Atom,
		atomWmProtocols:    atomWmProtocols.Atom,
		maxRequest:         int(setup.MaximumRequestLength) * 4,
		events:             make(chan xgb.Event, 64),
		size:               size,
	}
	go x.readEvents()
	return x, nil
}

func (x *X11) readEvents() {
	defer close(x.events)
	for {
		ev, err := x.X.WaitForEvent()
		if ev == nil && err == nil {
			return
		}
		if err != nil {
			log.Printf("warning: X error: %v", err)
			continue
		}
		x.events <- ev
	}
}

func (x *X11) Poll() ([]input.Event, image.Point) {
	x.pending = x.pending[:0]
	for {
		select {
		case ev, ok := <-x.events:
			if !ok {
				// connection gone
				x.pending = append(x.pending, input.Event{Kind: input.Quit})
				return x.pending, x.size
			}
			x.handle(ev)
		default:
			return x.pending, x.size
		}
	}
}

func (x *X11) handle(ev xgb.Event) {
	switch e := ev.(type) {
	case xproto.ButtonPressEvent:
		if e.Detail == xproto.ButtonIndex1 {
			x.pending = append(x.pending, input.ClickAt(int(e.EventX), int(e.EventY)))
		}
	case xproto.ConfigureNotifyEvent:
		x.size = image.Pt(int(e.Width), int(e.Height))
	case xproto.ClientMessageEvent:
		if e.Type == x.atomWmProtocols && e.Data.Data32[0] == uint32(x.atomWmDeleteWindow) {
			x.pending = append(x.pending, input.Event{Kind: input.Quit})
		}
	}
}

// rowsPerRequest is how many rows of stride bytes fit in one PutImage
// request of at most maxRequest bytes.
func rowsPerRequest(maxRequest, stride int) int {
	const putImageHeader = 24
	rows := (maxRequest - putImageHeader) / stride
	return max(rows, 1)
}

func (x *X11) Present(img *image.RGBA) error {
	b := img.Bounds()
	if x.bgra == nil || x.bgra.Bounds() != b {
		x.bgra = fbimage.NewBGRA(b)
	}
	drawing.CopyRGBAtoBGRA(x.bgra, img)

	rows := rowsPerRequest(x.maxRequest, x.bgra.Stride)
	for y := 0; y < b.Dy(); y += rows {
		h := min(rows, b.Dy()-y)
		data := x.bgra.Pix[y*x.bgra.Stride : (y+h)*x.bgra.Stride]
		xproto.PutImage(x.X, xproto.ImageFormatZPixmap, xproto.Drawable(x.wid), x.gc,
			uint16(b.Dx()), uint16(h), 0, int16(y), 0, x.depth, data)
	}
	// round trip so a slow server throttles the loop
	_, err := xproto.GetInputFocus(x.X).Reply()
	return err
}

func (x *X11) Close() error {
	x.X.Close()
	return nil
}
