/*
Package notify delivers selection changes to the outside world.

The render loop publishes into a mailbox and returns at once. Each sink has
its own worker goroutine that performs the network call with a timeout.
Failures are logged and dropped; nothing is retried and nothing is reported
back to the render loop.
*/
package notify

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/drummonds/gokiosk/internal/presentation"
)

const DefaultTimeout = 5 * time.Second

const DefaultQueueSize = 64

// Mode decides what happens to messages that arrive while a sink is busy.
type Mode string

const (
	// ModeLatest keeps only the newest pending message. A burst of clicks
	// delivers the first and the last selection and drops the rest, so the
	// display never finishes on a stale image.
	ModeLatest Mode = "latest"
	// ModeQueue delivers every message in order. When the queue is full new
	// messages are dropped. It is the default.
	ModeQueue Mode = "queue"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeLatest, ModeQueue:
		return m, nil
	}
	return "", fmt.Errorf("unknown notify mode %q (want %q or %q)", s, ModeLatest, ModeQueue)
}

// Sink is one destination for selection changes.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, ev presentation.SelectionChanged) error
}

type Options struct {
	Mode      Mode
	Timeout   time.Duration
	QueueSize int
}

type Notifier struct {
	opts    Options
	workers []*worker
	wg      sync.WaitGroup
	started bool
}

type worker struct {
	sink Sink
	box  chan presentation.SelectionChanged
}

func New(opts Options, sinks ...Sink) *Notifier {
	if opts.Mode == "" {
		opts.Mode = ModeQueue
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	n := &Notifier{opts: opts}
	for _, s := range sinks {
		n.Add(s)
	}
	return n
}

// Add registers a sink. It must be called before Start.
func (n *Notifier) Add(s Sink) {
	size := 1
	if n.opts.Mode == ModeQueue {
		size = n.opts.QueueSize
	}
	n.workers = append(n.workers, &worker{sink: s, box: make(chan presentation.SelectionChanged, size)})
}

// Publish hands ev to every sink without blocking.
func (n *Notifier) Publish(ev presentation.SelectionChanged) {
	for _, w := range n.workers {
		if n.opts.Mode == ModeQueue {
			select {
			case w.box <- ev:
			default:
				log.Printf("warning: notify %s: queue full, dropping %s", w.sink.Name(), ev.Identifier)
			}
			continue
		}
		w.replace(ev)
	}
}

// replace puts ev in the single slot mailbox, discarding anything still
// waiting there. The worker is the only other receiver so this terminates.
func (w *worker) replace(ev presentation.SelectionChanged) {
	for {
		select {
		case w.box <- ev:
			return
		default:
		}
		select {
		case old := <-w.box:
			log.Printf("notify %s: %s superseded by %s", w.sink.Name(), old.Identifier, ev.Identifier)
		default:
		}
	}
}

// Start runs one worker per sink until ctx is cancelled. A delivery already
// in flight runs to completion or timeout.
func (n *Notifier) Start(ctx context.Context) {
	if n.started {
		return
	}
	n.started = true
	for _, w := range n.workers {
		n.wg.Add(1)
		go func(w *worker) {
			defer n.wg.Done()
			w.run(ctx, n.opts.Timeout)
		}(w)
	}
}

// Wait blocks until every worker has stopped.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (w *worker) run(ctx context.Context, timeout time.Duration) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-w.box:
			w.deliver(ev, timeout)
		}
	}
}

func (w *worker) deliver(ev presentation.SelectionChanged, timeout time.Duration) {
	// Detached from the run context: shutdown does not cancel a request
	// that is already on the wire.
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	t0 := time.Now()
	if err := w.sink.Deliver(ctx, ev); err != nil {
		log.Printf("notify %s: showing %s failed: %v", w.sink.Name(), ev.Identifier, err)
		return
	}
	log.Printf("notify %s: showing %s (%v)", w.sink.Name(), ev.Identifier, time.Since(t0).Round(time.Millisecond))
}
