package carousel

import "fmt"

// PlayState is the autoplay state of a carousel.
type PlayState int

const (
	// Stopped is the initial state. Indicators are hidden.
	Stopped PlayState = iota
	// Playing advances slides when the progress cycle ends.
	Playing
	// Paused freezes the progress cycle with indicators visible.
	Paused
)

func (s PlayState) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("PlayState(%d)", int(s))
	}
}

// playback is the autoplay state machine.
//
//	        play                 pause
//	Stopped ─────► Playing ◄────────────► Paused
//	   ▲              │        play
//	   └──── stop ────┘
//
// A hover pause is a Paused state tagged byHover; only such a pause is
// lifted by the pointer leaving.
type playback struct {
	c *Carousel

	state         PlayState
	notified      bool
	pausedByHover bool
}

func (p *playback) setState(s PlayState) {
	if p.notified && s == p.state {
		return
	}
	p.state = s
	p.notified = true
	if fn := p.c.opts.OnPlayStateChange; fn != nil {
		p.c.guard("carousel.OnPlayStateChange", func() { fn(s) })
	}
}

// play starts or resumes autoplay. While transitions are in flight the
// progress cycle is held until they settle.
func (p *playback) play() {
	p.pausedByHover = false
	p.setState(Playing)
	if p.c.transitioning > 0 {
		return
	}
	p.c.progress.play()
}

// stop halts autoplay. With pause the indicators stay visible.
func (p *playback) stop(pause, byHover bool) {
	p.c.progress.stop(pause)
	p.pausedByHover = pause && byHover
	if pause {
		p.setState(Paused)
	} else {
		p.setState(Stopped)
	}
}

// pause freezes autoplay. A stopped carousel stays stopped.
func (p *playback) pause() {
	if p.state == Stopped {
		return
	}
	p.stop(true, false)
}

func (p *playback) hoverEnter() {
	if !p.c.opts.PauseOnHover || p.state != Playing {
		return
	}
	p.stop(true, true)
}

func (p *playback) hoverLeave() {
	if !p.pausedByHover || p.state != Paused {
		return
	}
	p.play()
}

// cycleEnd advances one slide when the progress cycle identified by cycle
// completes.
func (p *playback) cycleEnd(cycle uint64) {
	c := p.c
	if c.cleaned || p.state != Playing || cycle != c.progress.cycle || c.transitioning > 0 {
		return
	}
	c.move("carousel.autoplay", Next(), false)
	if c.transitioning == 0 {
		// Nothing to animate, e.g. a single slide. Start the next cycle.
		c.progress.reset()
		c.progress.play()
	}
}

func (p *playback) transitionStarted() {
	p.c.progress.reset()
}

// transitionsSettled resumes a held cycle once no transition is in flight.
func (p *playback) transitionsSettled() {
	if p.state == Playing {
		p.c.progress.play()
		return
	}
	p.c.progress.render()
}
