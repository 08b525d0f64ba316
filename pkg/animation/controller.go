package animation

import (
	"fmt"
	"time"
)

// AnimationStatus represents the current state of an animation.
//
// The status follows this state machine:
//
//	            Forward()              tick reaches 1
//	Dismissed ───────────► Forward ─────────────────► Completed
//	    ▲                  │     ▲                         │
//	    │            Stop()│     │Forward()                │
//	    │                  ▼     │                         │
//	    │                  Paused                          │
//	    └───────────────── Reset() ◄───────────────────────┘
//
// Reset returns to Dismissed from any state.
type AnimationStatus int

const (
	// AnimationDismissed means the animation is at 0 and has not started.
	AnimationDismissed AnimationStatus = iota
	// AnimationForward means the animation is playing toward 1.
	AnimationForward
	// AnimationPaused means the animation was stopped part way.
	AnimationPaused
	// AnimationCompleted means the animation reached 1.
	AnimationCompleted
)

// String returns a human-readable representation of the animation status.
func (s AnimationStatus) String() string {
	switch s {
	case AnimationDismissed:
		return "dismissed"
	case AnimationForward:
		return "forward"
	case AnimationPaused:
		return "paused"
	case AnimationCompleted:
		return "completed"
	default:
		return fmt.Sprintf("AnimationStatus(%d)", int(s))
	}
}

// AnimationController drives a value from 0 to 1 over Duration on a Loop.
//
// Stopping part way and calling Forward again resumes from the current
// value and takes only the remaining share of Duration.
//
// Use [Tween] to map the value onto offsets, opacity or other ranges.
// Always call Dispose when done.
type AnimationController struct {
	// Value is the current animation value, ranging from 0.0 to 1.0.
	Value float64

	// Duration is the length of a full run from 0 to 1.
	Duration time.Duration

	// Curve transforms linear progress (optional).
	Curve func(float64) float64

	loop            *Loop
	status          AnimationStatus
	ticker          *Ticker
	startValue      float64
	linear          float64
	listeners       map[int]func()
	statusListeners map[int]func(AnimationStatus)
	nextListenerID  int
}

// NewAnimationController creates an animation controller with the given
// duration whose ticker runs on loop.
func NewAnimationController(loop *Loop, duration time.Duration) *AnimationController {
	return &AnimationController{
		loop:            loop,
		Duration:        duration,
		Curve:           LinearCurve,
		status:          AnimationDismissed,
		listeners:       make(map[int]func()),
		statusListeners: make(map[int]func(AnimationStatus)),
	}
}

// Forward starts the animation, or resumes it from the current value.
func (c *AnimationController) Forward() {
	if c.ticker != nil {
		c.ticker.Stop()
	}
	c.startValue = c.linear
	c.setStatus(AnimationForward)

	span := time.Duration(float64(c.Duration) * (1 - c.startValue))
	c.ticker = c.loop.NewTicker(func(elapsed time.Duration) {
		c.tick(elapsed, span)
	})
	c.ticker.Start()
}

func (c *AnimationController) tick(elapsed, span time.Duration) {
	progress := 1.0
	if span > 0 {
		progress = min(1, float64(elapsed)/float64(span))
	}
	c.linear = c.startValue + (1-c.startValue)*progress
	c.Value = c.linear
	if c.Curve != nil {
		c.Value = c.Curve(c.linear)
	}
	c.notifyListeners()

	if progress >= 1 {
		c.ticker.Stop()
		c.ticker = nil
		c.setStatus(AnimationCompleted)
	}
}

// Stop pauses the animation at the current value. Forward resumes it.
func (c *AnimationController) Stop() {
	if c.ticker == nil {
		return
	}
	c.ticker.Stop()
	c.ticker = nil
	if c.status == AnimationForward {
		c.setStatus(AnimationPaused)
	}
}

// Reset immediately rewinds the value to 0.
func (c *AnimationController) Reset() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
	c.Value = 0
	c.linear = 0
	c.startValue = 0
	c.setStatus(AnimationDismissed)
	c.notifyListeners()
}

// Status returns the current animation status.
func (c *AnimationController) Status() AnimationStatus {
	return c.status
}

// IsAnimating returns true if the animation is currently running.
func (c *AnimationController) IsAnimating() bool {
	return c.ticker != nil && c.status == AnimationForward
}

// IsCompleted returns true if the animation reached 1.
func (c *AnimationController) IsCompleted() bool {
	return c.status == AnimationCompleted
}

// IsDismissed returns true if the animation is rewound and not started.
func (c *AnimationController) IsDismissed() bool {
	return c.status == AnimationDismissed
}

// AddListener adds a callback that fires whenever the value changes.
// Returns an unsubscribe function.
func (c *AnimationController) AddListener(fn func()) func() {
	id := c.nextListenerID
	c.nextListenerID++
	c.listeners[id] = fn
	return func() {
		delete(c.listeners, id)
	}
}

// AddStatusListener adds a callback that fires whenever the status changes.
// Returns an unsubscribe function.
func (c *AnimationController) AddStatusListener(fn func(AnimationStatus)) func() {
	id := c.nextListenerID
	c.nextListenerID++
	c.statusListeners[id] = fn
	return func() {
		delete(c.statusListeners, id)
	}
}

func (c *AnimationController) setStatus(status AnimationStatus) {
	if c.status == status {
		return
	}
	c.status = status
	for _, listener := range c.statusListeners {
		listener(status)
	}
}

func (c *AnimationController) notifyListeners() {
	for _, listener := range c.listeners {
		listener()
	}
}

// Dispose stops the animation and drops all listeners.
func (c *AnimationController) Dispose() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
	c.listeners = nil
	c.statusListeners = nil
}
