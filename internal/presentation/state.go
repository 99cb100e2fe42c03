/*
Presentation state for the kiosk.

State owns the current selection, the carousel offset and the slideshow
timer. It is only ever mutated from the render loop so there is no locking;
anything that needs to see it from another goroutine gets a Snapshot or a
SelectionChanged message.
*/
package presentation

import (
	"errors"
	"time"
)

// DefaultSlideInterval is how long a slide stays up in slideshow mode.
const DefaultSlideInterval = 5 * time.Second

var ErrEmpty = errors.New("presentation: no images to present")

// Catalog is the ordered list of identifiers being presented.
type Catalog interface {
	Len() int
	Identifier(i int) string
}

// SelectionChanged is emitted once for every change of the current index.
type SelectionChanged struct {
	Index      int
	Identifier string
	At         time.Time
}

type Publisher interface {
	Publish(ev SelectionChanged)
}

// PublisherFunc adapts a plain function to a Publisher.
type PublisherFunc func(ev SelectionChanged)

func (f PublisherFunc) Publish(ev SelectionChanged) { f(ev) }

type State struct {
	catalog  Catalog
	pub      Publisher
	interval time.Duration
	clock    func() time.Time

	current     int
	offset      int
	slideshow   bool
	lastAdvance time.Time
}

// Snapshot is a copy of State that is safe to hand to other goroutines.
type Snapshot struct {
	Current         int    `json:"current"`
	Identifier      string `json:"identifier"`
	Offset          int    `json:"carouselOffset"`
	Count           int    `json:"count"`
	SlideshowActive bool   `json:"slideshowActive"`
}

// New starts at index 0 with the slideshow stopped. pub may be nil.
func New(catalog Catalog, interval time.Duration, pub Publisher) (*State, error) {
	if catalog == nil || catalog.Len() == 0 {
		return nil, ErrEmpty
	}
	if interval <= 0 {
		interval = DefaultSlideInterval
	}
	return &State{
		catalog:  catalog,
		pub:      pub,
		interval: interval,
		clock:    time.Now,
	}, nil
}

func (s *State) Len() int                { return s.catalog.Len() }
func (s *State) Current() int            { return s.current }
func (s *State) Offset() int             { return s.offset }
func (s *State) SlideshowActive() bool   { return s.slideshow }
func (s *State) Interval() time.Duration { return s.interval }

// Identifier of the current image.
func (s *State) Identifier() string { return s.catalog.Identifier(s.current) }

func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Current:         s.current,
		Identifier:      s.Identifier(),
		Offset:          s.offset,
		Count:           s.Len(),
		SlideshowActive: s.slideshow,
	}
}

// Select makes image i current. Out of range indices wrap.
func (s *State) Select(i int) {
	n := s.Len()
	i = ((i % n) + n) % n
	if i == s.current {
		return
	}
	s.current = i
	if s.pub != nil {
		s.pub.Publish(SelectionChanged{
			Index:      i,
			Identifier: s.catalog.Identifier(i),
			At:         s.clock(),
		})
	}
}

func (s *State) Step(delta int) {
	s.Select(s.current + delta)
}

// ScrollCarousel moves the leftmost thumbnail. It clamps to [0, N-1] rather
// than wrapping and never touches the current selection.
func (s *State) ScrollCarousel(delta int) {
	offset := s.offset + delta
	if offset < 0 {
		offset = 0
	}
	if last := s.Len() - 1; offset > last {
		offset = last
	}
	s.offset = offset
}

func (s *State) StartSlideshow(now time.Time) {
	s.slideshow = true
	s.lastAdvance = now
}

func (s *State) StopSlideshow() {
	s.slideshow = false
}

// Tick advances the slideshow by one image once the interval has elapsed
// since the last advance. It reports whether it advanced.
func (s *State) Tick(now time.Time) bool {
	if !s.slideshow || now.Sub(s.lastAdvance) < s.interval {
		return false
	}
	s.Step(1)
	s.lastAdvance = now
	return true
}
