package testing

import (
	"errors"
	"testing"
	"time"

	"github.com/go-drift/carousel/pkg/animation"
	"github.com/go-drift/carousel/pkg/carousel"
	"github.com/go-drift/carousel/pkg/dom"
)

// FrameDuration is how far PumpFor and PumpAndSettle advance the clock per
// frame.
const FrameDuration = animation.FrameInterval

// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
var ErrSettleTimeout = errors.New("PumpAndSettle timed out: carousel did not settle")

// ErrConditionTimeout is returned when PumpUntil exceeds its timeout.
var ErrConditionTimeout = errors.New("PumpUntil timed out: condition never held")

// Tester drives a carousel on a headless document with a fake clock.
type Tester struct {
	clock    *FakeClock
	loop     *animation.Loop
	doc      *dom.Document
	recorder *ErrorRecorder
	carousel *carousel.Carousel
}

// NewTester creates a tester with an empty document.
// Call Cleanup() when done, or use NewTesterWithT() instead.
func NewTester() *Tester {
	clk := NewFakeClock()
	loop := animation.NewLoop(clk)
	return &Tester{
		clock:    clk,
		loop:     loop,
		doc:      dom.NewDocument(loop),
		recorder: &ErrorRecorder{},
	}
}

// NewTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewTesterWithT(t testing.TB) *Tester {
	tester := NewTester()
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup releases the mounted carousel, if any.
func (t *Tester) Cleanup() {
	if t.carousel != nil {
		t.carousel.Cleanup()
		t.carousel = nil
	}
	t.doc.Unmount()
}

// Mount mounts root and creates a carousel on it. A nil opts.Handler is
// replaced by the tester's ErrorRecorder.
func (t *Tester) Mount(root *dom.Element, opts carousel.Options) *carousel.Carousel {
	if t.carousel != nil {
		t.carousel.Cleanup()
	}
	t.doc.Mount(root)
	if opts.Handler == nil {
		opts.Handler = t.recorder
	}
	t.carousel = carousel.New(t.doc, t.loop, opts)
	return t.carousel
}

// Clock returns the fake clock for advancing time in tests.
func (t *Tester) Clock() *FakeClock { return t.clock }

// Loop returns the loop the carousel runs on.
func (t *Tester) Loop() *animation.Loop { return t.loop }

// Document returns the headless document.
func (t *Tester) Document() *dom.Document { return t.doc }

// Errors returns the recorder receiving carousel errors.
func (t *Tester) Errors() *ErrorRecorder { return t.recorder }

// Carousel returns the mounted carousel, or nil.
func (t *Tester) Carousel() *carousel.Carousel { return t.carousel }

// Pump runs one loop step without advancing the clock.
func (t *Tester) Pump() {
	t.loop.Step()
}

// PumpFor advances the clock by d one frame at a time, stepping the loop
// after every frame. The final frame may be shorter than FrameDuration.
func (t *Tester) PumpFor(d time.Duration) {
	t.Pump()
	for d > 0 {
		step := FrameDuration
		if d < step {
			step = d
		}
		t.clock.Advance(step)
		d -= step
		t.Pump()
	}
}

// PumpUntil runs frames until cond holds or timeout elapses.
func (t *Tester) PumpUntil(cond func() bool, timeout time.Duration) error {
	var elapsed time.Duration
	for {
		t.Pump()
		if cond() {
			return nil
		}
		if elapsed >= timeout {
			return ErrConditionTimeout
		}
		t.clock.Advance(FrameDuration)
		elapsed += FrameDuration
	}
}

// PumpAndSettle runs frames until no transition is in flight and no clone
// is left in the document. Without a carousel it waits for the loop to go
// idle. Autoplay keeps its own ticker running and does not prevent
// settling. Returns ErrSettleTimeout if nothing settles within timeout.
func (t *Tester) PumpAndSettle(timeout time.Duration) error {
	if err := t.PumpUntil(t.settled, timeout); err != nil {
		return ErrSettleTimeout
	}
	return nil
}

func (t *Tester) settled() bool {
	if t.carousel == nil {
		return t.loop.Idle()
	}
	return t.carousel.Transitioning() == 0 && len(t.doc.Clones()) == 0
}

// Hover moves the pointer onto the container and runs one step.
func (t *Tester) Hover() {
	t.doc.PointerEnter()
	t.Pump()
}

// Unhover moves the pointer off the container and runs one step.
func (t *Tester) Unhover() {
	t.doc.PointerLeave()
	t.Pump()
}

// LoadImages completes loading of every image with src.
func (t *Tester) LoadImages(src string, naturalHeight float64) {
	t.doc.LoadImages(src, naturalHeight)
}

// Find evaluates a finder against the mounted container.
func (t *Tester) Find(finder Finder) FinderResult {
	root := t.doc.Container()
	if root == nil {
		return FinderResult{finder: finder}
	}
	return FinderResult{
		elements: finder.Evaluate(root),
		finder:   finder,
	}
}
