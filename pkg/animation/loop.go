// Package animation provides the timing primitives the carousel engine runs
// on: a single-owner event loop with frame tickers and timers, an
// AnimationController that drives values over time, and easing curves.
//
// # Event Loop
//
// A [Loop] owns every callback it runs. Dispatched functions, expired
// timers and active tickers all execute on the goroutine that calls
// [Loop.Step] (directly in tests, or through [Loop.Run]). State that is only
// touched from those callbacks needs no locking:
//
//	loop := animation.NewLoop(animation.SystemClock{})
//	ctrl := animation.NewAnimationController(loop, 5*time.Second)
//	ctrl.AddStatusListener(func(s animation.AnimationStatus) {
//	    if s == animation.AnimationCompleted {
//	        // advance
//	    }
//	})
//	ctrl.Forward()
//	go loop.Run(ctx, animation.FrameInterval)
//
// Each Loop is independent; there is no package-level scheduler.
package animation

import (
	"context"
	"sort"
	"sync"
	"time"
)

// FrameInterval is the nominal frame period (~60 Hz).
const FrameInterval = 16 * time.Millisecond

// Loop is a single-threaded frame scheduler.
//
// Dispatch may be called from any goroutine. Everything else (timers,
// tickers and the callbacks they run) belongs to the goroutine driving
// Step.
type Loop struct {
	clock Clock

	mu      sync.Mutex
	queue   []func()
	timers  map[*Timer]struct{}
	tickers map[*Ticker]struct{}
	seq     uint64
	wake    chan struct{}
}

// NewLoop creates a loop reading time from clock. A nil clock uses
// SystemClock.
func NewLoop(clock Clock) *Loop {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Loop{
		clock:   clock,
		timers:  make(map[*Timer]struct{}),
		tickers: make(map[*Ticker]struct{}),
		wake:    make(chan struct{}, 1),
	}
}

// Clock returns the loop's time source.
func (l *Loop) Clock() Clock { return l.clock }

// Now returns the current time from the loop's clock.
func (l *Loop) Now() time.Time { return l.clock.Now() }

// Dispatch schedules fn to run on the loop during the next Step.
// Returns false if fn is nil.
func (l *Loop) Dispatch(fn func()) bool {
	if fn == nil {
		return false
	}
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Timer is a one-shot callback scheduled on a Loop.
type Timer struct {
	loop *Loop
	due  time.Time
	seq  uint64
	fn   func()
}

// AfterFunc runs fn on the loop once d has elapsed. A timer created while
// the loop is stepping never fires in that same step.
func (l *Loop) AfterFunc(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	l.mu.Lock()
	l.seq++
	t := &Timer{loop: l, due: l.clock.Now().Add(d), seq: l.seq, fn: fn}
	l.timers[t] = struct{}{}
	l.mu.Unlock()
	return t
}

// Stop cancels the timer. Returns true if the call prevented the timer
// from firing.
func (t *Timer) Stop() bool {
	if t == nil {
		return false
	}
	l := t.loop
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.timers[t]; !ok {
		return false
	}
	delete(l.timers, t)
	return true
}

// Pending reports whether the timer is still scheduled.
func (t *Timer) Pending() bool {
	if t == nil {
		return false
	}
	t.loop.mu.Lock()
	defer t.loop.mu.Unlock()
	_, ok := t.loop.timers[t]
	return ok
}

// Ticker calls a callback on each frame while active.
//
// Ticker is the low-level timing primitive used by [AnimationController].
// The callback receives the elapsed time since Start was called.
type Ticker struct {
	loop     *Loop
	callback func(elapsed time.Duration)
	isActive bool
	start    time.Time
}

// NewTicker creates a ticker bound to the loop. It does nothing until
// Start is called.
func (l *Loop) NewTicker(callback func(elapsed time.Duration)) *Ticker {
	return &Ticker{loop: l, callback: callback}
}

// Start activates the ticker.
func (t *Ticker) Start() {
	if t.isActive {
		return
	}
	t.isActive = true
	t.start = t.loop.Now()
	t.loop.mu.Lock()
	t.loop.tickers[t] = struct{}{}
	t.loop.mu.Unlock()
}

// Stop deactivates the ticker.
func (t *Ticker) Stop() {
	if !t.isActive {
		return
	}
	t.isActive = false
	t.loop.mu.Lock()
	delete(t.loop.tickers, t)
	t.loop.mu.Unlock()
}

// IsActive returns whether the ticker is currently running.
func (t *Ticker) IsActive() bool {
	return t.isActive
}

// Elapsed returns the time since the ticker started.
func (t *Ticker) Elapsed() time.Duration {
	if !t.isActive {
		return 0
	}
	return t.loop.Now().Sub(t.start)
}

// Step runs one frame: drains dispatched callbacks, fires expired timers in
// due order, then advances active tickers.
func (l *Loop) Step() {
	now := l.clock.Now()
	l.mu.Lock()
	queue := l.queue
	l.queue = nil
	var due []*Timer
	for t := range l.timers {
		if !t.due.After(now) {
			due = append(due, t)
		}
	}
	l.mu.Unlock()

	for _, fn := range queue {
		fn()
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].seq < due[j].seq
		}
		return due[i].due.Before(due[j].due)
	})
	for _, t := range due {
		// An earlier callback may have stopped it.
		if !t.Stop() {
			continue
		}
		if t.fn != nil {
			t.fn()
		}
	}

	l.mu.Lock()
	if len(l.tickers) == 0 {
		l.mu.Unlock()
		return
	}
	tickers := make([]*Ticker, 0, len(l.tickers))
	for ticker := range l.tickers {
		tickers = append(tickers, ticker)
	}
	l.mu.Unlock()

	for _, ticker := range tickers {
		if ticker.isActive && ticker.callback != nil {
			ticker.callback(l.clock.Now().Sub(ticker.start))
		}
	}
}

// Idle reports whether the loop has no queued callbacks, pending timers or
// active tickers.
func (l *Loop) Idle() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue) == 0 && len(l.timers) == 0 && len(l.tickers) == 0
}

// HasActiveTickers returns true if any tickers are active.
func (l *Loop) HasActiveTickers() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tickers) > 0
}

// Run steps the loop every frame until ctx is done. Dispatch wakes the
// loop early so cross-goroutine work is not delayed by a full frame.
func (l *Loop) Run(ctx context.Context, frame time.Duration) error {
	if frame <= 0 {
		frame = FrameInterval
	}
	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-l.wake:
		}
		l.Step()
	}
}
