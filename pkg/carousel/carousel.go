package carousel

import (
	"time"

	"github.com/google/uuid"

	"github.com/go-drift/carousel/pkg/animation"
	"github.com/go-drift/carousel/pkg/errors"
)

// ResizeDebounce is the quiet period after which a burst of Resize calls
// recalculates the container height a final time.
const ResizeDebounce = 500 * time.Millisecond

// Carousel is a mounted carousel instance. All methods must be called on
// the goroutine driving its loop.
type Carousel struct {
	id   string
	r    Renderer
	loop *animation.Loop
	opts Options
	reg  registry

	engine   *transitionEngine
	progress *progressAnimator
	playback *playback

	active        int
	inFlight      map[int]int
	transitioning int

	mounted bool
	cleaned bool
	unhover func()

	resizeTimer *animation.Timer
	resized     bool
}

// New mounts a carousel on the container returned by r.Root.
//
// The slide at opts.DefaultActive is activated without animation and
// without calling OnActiveChange. A missing container or a container
// without slides is reported and yields a carousel whose methods do
// nothing.
func New(r Renderer, loop *animation.Loop, opts Options) *Carousel {
	c := &Carousel{
		id:       uuid.NewString(),
		r:        r,
		loop:     loop,
		opts:     opts.withDefaults(),
		reg:      registry{r: r},
		inFlight: make(map[int]int),
	}
	c.playback = &playback{c: c}
	c.engine = newTransitionEngine(r, loop, c.options, func(kind errors.ErrorKind, err error, slide int) {
		c.report("carousel.animate", kind, err, slide)
	})
	c.progress = newProgressAnimator(r, loop, c.reg, c.options, c.ActiveName)
	c.progress.onCycleEnd = c.playback.cycleEnd
	c.mount()
	return c
}

func (c *Carousel) options() *Options { return &c.opts }

func (c *Carousel) mount() {
	const op = "carousel.New"
	if c.r == nil || c.r.Root() == nil {
		c.report(op, errors.KindMount, errors.ErrNoContainer, -1)
		return
	}
	slides := c.reg.slides()
	if len(slides) == 0 {
		c.report(op, errors.KindMount, errors.ErrNoSlides, -1)
		return
	}
	c.mounted = true

	start := c.opts.DefaultActive
	if start < 0 || start >= len(slides) {
		c.report(op, errors.KindNavigation, errors.ErrOutOfRange, start)
		start = 0
	}
	c.activate(slides, start)
	c.Resize()
	c.unhover = c.r.OnHover(c.playback.hoverEnter, c.playback.hoverLeave)

	if c.opts.Autoplay {
		c.playback.play()
	} else {
		c.playback.setState(Stopped)
		c.progress.render()
	}
}

// ID returns the instance identifier used in error reports.
func (c *Carousel) ID() string { return c.id }

// Move animates to target. The returned completion resolves once both the
// outgoing and incoming transitions have finished; it is already resolved
// when nothing needs to animate or the target is invalid.
func (c *Carousel) Move(target Target) *Completion {
	return c.move("carousel.Move", target, false)
}

// MoveInstant activates target without animation.
func (c *Carousel) MoveInstant(target Target) {
	c.move("carousel.MoveInstant", target, true)
}

// Next moves to the following slide, wrapping to the first.
func (c *Carousel) Next() *Completion {
	return c.move("carousel.Next", Next(), false)
}

// Previous moves to the preceding slide, wrapping to the last.
func (c *Carousel) Previous() *Completion {
	return c.move("carousel.Previous", Previous(), false)
}

// Play starts autoplay.
func (c *Carousel) Play() {
	if c.usable("carousel.Play") {
		c.playback.play()
	}
}

// Pause freezes autoplay, keeping progress indicators visible. A pause is
// not lifted by the pointer leaving the container. Pausing a stopped
// carousel does nothing.
func (c *Carousel) Pause() {
	if c.usable("carousel.Pause") {
		c.playback.pause()
	}
}

// Stop halts autoplay and hides progress indicators.
func (c *Carousel) Stop() {
	if c.usable("carousel.Stop") {
		c.playback.stop(false, false)
	}
}

func (c *Carousel) move(op string, t Target, instant bool) *Completion {
	if !c.usable(op) {
		return resolvedCompletion()
	}
	slides := c.reg.slides()
	last := len(slides) - 1
	if last < 0 {
		c.report(op, errors.KindMount, errors.ErrNoSlides, -1)
		return resolvedCompletion()
	}

	next := ResolveTarget(c.active, t, last)
	if t.kind == targetNamed {
		i, ok := c.reg.indexOf(t.name)
		if !ok {
			c.report(op, errors.KindNavigation, errors.ErrUnknownName, -1)
			return resolvedCompletion()
		}
		next = i
	}
	dir, err := ResolveDirection(c.active, next, last, t)
	if err != nil {
		c.report(op, errors.KindNavigation, err, next)
		return resolvedCompletion()
	}
	if instant {
		c.activate(slides, next)
		return resolvedCompletion()
	}
	if dir == None {
		return resolvedCompletion()
	}

	prev := c.active
	c.active = next
	c.transitioning++
	c.playback.transitionStarted()
	if fn := c.opts.OnActiveChange; fn != nil {
		name := slides[next].Name
		c.guard("carousel.OnActiveChange", func() { fn(next, name) })
	}

	out := resolvedCompletion()
	if c.inFlight[prev] == 0 {
		c.r.SetActive(slides[prev].Node, false)
		out = c.launch(slides[prev], PhaseOut, dir)
	}
	in := c.launch(slides[next], PhaseIn, dir)

	pair := all(out, in)
	pair.Then(func() {
		c.transitioning--
		if c.transitioning == 0 && !c.cleaned {
			c.playback.transitionsSettled()
		}
	})
	return pair
}

// launch animates s and holds a reference on its index until the
// transition completes.
func (c *Carousel) launch(s Slide, phase Phase, dir Direction) *Completion {
	c.inFlight[s.Index]++
	tr := c.engine.animate(s, phase, dir)
	tr.done.Then(func() { c.settle(s) })
	return tr.done
}

// settle drops one reference on s. The last reference marks the original
// slide according to the active index at that moment.
func (c *Carousel) settle(s Slide) {
	c.inFlight[s.Index]--
	if c.inFlight[s.Index] > 0 {
		return
	}
	delete(c.inFlight, s.Index)
	if !c.cleaned {
		c.r.SetActive(s.Node, s.Index == c.active)
	}
}

// activate marks slide i active without animation. Slides still in
// flight are marked by their own completion.
func (c *Carousel) activate(slides []Slide, i int) {
	c.active = i
	for _, s := range slides {
		if c.inFlight[s.Index] == 0 {
			c.r.SetActive(s.Node, s.Index == i)
		}
	}
	c.progress.reset()
	if c.playback.state == Playing && c.transitioning == 0 {
		c.progress.play()
	}
}

// Configure replaces the options of a mounted carousel. The active slide
// and in-flight transitions are kept; autoplay starts or stops to follow
// opts.Autoplay.
func (c *Carousel) Configure(opts Options) {
	if !c.usable("carousel.Configure") {
		return
	}
	wasAutoplay := c.opts.Autoplay
	c.opts = opts.withDefaults()
	switch {
	case c.opts.Autoplay && !wasAutoplay && c.playback.state == Stopped:
		c.playback.play()
	case !c.opts.Autoplay && wasAutoplay && c.playback.state != Stopped:
		c.playback.stop(false, false)
	default:
		c.progress.render()
	}
	if c.opts.DynamicHeight {
		c.Resize()
	}
}

// Resize recalculates the container height when DynamicHeight is set.
// The first call applies immediately; every later burst of calls is
// coalesced into one recalculation ResizeDebounce after the last of them.
func (c *Carousel) Resize() {
	if !c.mounted || c.cleaned || !c.opts.DynamicHeight {
		return
	}
	if !c.resized {
		c.resized = true
		c.updateHeight()
		return
	}
	c.resizeTimer.Stop()
	c.resizeTimer = c.loop.AfterFunc(ResizeDebounce, func() {
		c.resizeTimer = nil
		if !c.cleaned {
			c.updateHeight()
		}
	})
}

func (c *Carousel) updateHeight() {
	var h float64
	for _, s := range c.reg.slides() {
		if sh := c.r.Height(s.Node); sh > h {
			h = sh
		}
	}
	c.r.SetContainerHeight(h)
}

// Cleanup releases listeners and timers and removes live clones. Later
// calls on the carousel are reported and ignored.
func (c *Carousel) Cleanup() {
	if c.cleaned {
		return
	}
	c.cleaned = true
	c.resizeTimer.Stop()
	c.resizeTimer = nil
	if c.unhover != nil {
		c.unhover()
		c.unhover = nil
	}
	if c.mounted {
		for _, s := range c.reg.slides() {
			c.r.SetActive(s.Node, s.Index == c.active)
		}
	}
	c.engine.cancelAll()
	c.progress.dispose()
}

// ActiveIndex returns the index of the active slide.
func (c *Carousel) ActiveIndex() int { return c.active }

// ActiveName returns the name of the active slide, or "" if it has none.
func (c *Carousel) ActiveName() string {
	if !c.mounted {
		return ""
	}
	for _, s := range c.reg.slides() {
		if s.Index == c.active {
			return s.Name
		}
	}
	return ""
}

// IsFirst reports whether the first slide is active.
func (c *Carousel) IsFirst() bool { return c.active == 0 }

// IsLast reports whether the last slide is active.
func (c *Carousel) IsLast() bool {
	return c.mounted && c.active == len(c.reg.slides())-1
}

// PlayState returns the autoplay state.
func (c *Carousel) PlayState() PlayState { return c.playback.state }

// PausedByHover reports whether the current pause came from the pointer.
func (c *Carousel) PausedByHover() bool { return c.playback.pausedByHover }

// Transitioning returns the number of moves whose transitions are still
// in flight.
func (c *Carousel) Transitioning() int { return c.transitioning }

// Slides returns the mounted slides in order.
func (c *Carousel) Slides() []Slide {
	if !c.mounted {
		return nil
	}
	return c.reg.slides()
}

func (c *Carousel) usable(op string) bool {
	switch {
	case c.cleaned:
		c.report(op, errors.KindMount, errors.ErrCleanedUp, -1)
		return false
	case !c.mounted:
		c.report(op, errors.KindMount, errors.ErrNoContainer, -1)
		return false
	}
	return true
}

func (c *Carousel) report(op string, kind errors.ErrorKind, err error, slide int) {
	ce := errors.New(op, kind, err)
	ce.Carousel = c.id
	ce.Slide = slide
	errors.ReportTo(c.opts.Handler, ce)
}

func (c *Carousel) guard(op string, fn func()) {
	errors.Guard(c.opts.Handler, op, fn)
}
