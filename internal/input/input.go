// Package input maps pointer events to presentation transitions.
package input

import (
	"fmt"
	"image"
	"time"

	"github.com/drummonds/gokiosk/internal/layout"
)

type EventKind int

const (
	Click EventKind = iota
	Quit
)

// Event is a display-independent input event, produced by the display
// backends.
type Event struct {
	Kind EventKind
	Pos  image.Point
}

func ClickAt(x, y int) Event { return Event{Kind: Click, Pos: image.Pt(x, y)} }

type ActionKind int

const (
	None ActionKind = iota
	Prev
	Next
	Start
	Stop
	ScrollLeft
	ScrollRight
	SelectThumb
)

var actionNames = map[ActionKind]string{
	None:        "none",
	Prev:        "prev",
	Next:        "next",
	Start:       "start",
	Stop:        "stop",
	ScrollLeft:  "scroll-left",
	ScrollRight: "scroll-right",
	SelectThumb: "select",
}

func (k ActionKind) String() string { return actionNames[k] }

type Action struct {
	Kind  ActionKind
	Index int // thumbnail index for SelectThumb
}

func (a Action) String() string {
	if a.Kind == SelectThumb {
		return fmt.Sprintf("%v(%d)", a.Kind, a.Index)
	}
	return a.Kind.String()
}

var buttonActions = [...]struct {
	button layout.Button
	kind   ActionKind
}{
	{layout.Prev, Prev},
	{layout.Next, Next},
	{layout.Start, Start},
	{layout.Stop, Stop},
}

// Route finds what a click at p hits. Regions are checked in a fixed
// priority: buttons, then the scroll arrows, then thumbnails in index order.
// The first match wins.
func Route(p image.Point, r layout.HitRegions) Action {
	for _, b := range buttonActions {
		if p.In(r.Buttons[b.button]) {
			return Action{Kind: b.kind}
		}
	}
	if p.In(r.LeftArrow) {
		return Action{Kind: ScrollLeft}
	}
	if p.In(r.RightArrow) {
		return Action{Kind: ScrollRight}
	}
	for i, thumb := range r.Thumbs {
		if p.In(thumb) {
			return Action{Kind: SelectThumb, Index: i}
		}
	}
	return Action{Kind: None}
}

// Transitions is the part of presentation.State that input drives.
type Transitions interface {
	Select(i int)
	Step(delta int)
	ScrollCarousel(delta int)
	StartSlideshow(now time.Time)
	StopSlideshow()
}

func Apply(a Action, t Transitions, now time.Time) {
	switch a.Kind {
	case Prev:
		t.Step(-1)
	case Next:
		t.Step(1)
	case Start:
		t.StartSlideshow(now)
	case Stop:
		t.StopSlideshow()
	case ScrollLeft:
		t.ScrollCarousel(-1)
	case ScrollRight:
		t.ScrollCarousel(1)
	case SelectThumb:
		t.Select(a.Index)
	}
}
