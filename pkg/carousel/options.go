package carousel

import (
	"time"

	"github.com/go-drift/carousel/pkg/animation"
	"github.com/go-drift/carousel/pkg/errors"
)

// Options configures a Carousel. Start from DefaultOptions and override
// fields; a zero Options disables autoplay and animates instantly.
type Options struct {
	// DefaultActive is the slide shown on mount.
	DefaultActive int
	// Autoplay starts playback on mount.
	Autoplay bool
	// AutoplayProgress shows progress indicators while playing.
	AutoplayProgress bool
	// AutoplaySpeed is the time each slide stays before auto-advance.
	AutoplaySpeed time.Duration
	// PauseOnHover pauses playback while the pointer is over the container.
	PauseOnHover bool
	// DynamicHeight sizes the container to its tallest slide.
	DynamicHeight bool

	// BaseDuration is the slide transition duration.
	BaseDuration time.Duration
	// TranslateOffset is how far, in percent, slides travel.
	TranslateOffset float64

	// TransitionDelay, TransitionDuration and TransitionEasing compute the
	// timing of a staggered element from its 1-based order and
	// BaseDuration. Nil uses the defaults below.
	TransitionDelay    func(order int, base time.Duration) time.Duration
	TransitionDuration func(order int, base time.Duration) time.Duration
	TransitionEasing   func(order int, base time.Duration) animation.Easing

	// OnActiveChange is called when an animated move changes the active
	// slide, before the animation completes.
	OnActiveChange func(index int, name string)
	// OnPlayStateChange is called when the play state changes.
	OnPlayStateChange func(state PlayState)

	// Handler receives reported errors. Nil uses errors.DefaultHandler.
	Handler errors.Handler
}

// DefaultOptions returns the engine defaults.
//
// The defaults provide:
//   - no autoplay, 5s per slide once playing, progress shown
//   - pause on hover
//   - 1s transitions travelling 100%
//   - fixed container height
func DefaultOptions() Options {
	return Options{
		AutoplayProgress: true,
		AutoplaySpeed:    5 * time.Second,
		PauseOnHover:     true,
		BaseDuration:     time.Second,
		TranslateOffset:  100,
	}
}

// DefaultTransitionDelay delays a staggered element by order*(base/2).
func DefaultTransitionDelay(order int, base time.Duration) time.Duration {
	return time.Duration(order) * (base / 2)
}

// DefaultTransitionDuration runs a staggered element for
// base + base*(order/5).
func DefaultTransitionDuration(order int, base time.Duration) time.Duration {
	return base + time.Duration(float64(base)*float64(order)/5)
}

// DefaultTransitionEasing returns animation.StaggerEasing.
func DefaultTransitionEasing(int, time.Duration) animation.Easing {
	return animation.StaggerEasing
}

func (o Options) withDefaults() Options {
	if o.AutoplaySpeed <= 0 {
		o.AutoplaySpeed = 5 * time.Second
	}
	if o.BaseDuration < 0 {
		o.BaseDuration = 0
	}
	if o.TransitionDelay == nil {
		o.TransitionDelay = DefaultTransitionDelay
	}
	if o.TransitionDuration == nil {
		o.TransitionDuration = DefaultTransitionDuration
	}
	if o.TransitionEasing == nil {
		o.TransitionEasing = DefaultTransitionEasing
	}
	return o
}
