package carousel

import (
	"time"

	"github.com/go-drift/carousel/pkg/animation"
	"github.com/go-drift/carousel/pkg/errors"
)

// Phase says whether a transition brings a slide in or takes it out.
type Phase int

const (
	PhaseIn Phase = iota
	PhaseOut
)

func (p Phase) String() string {
	if p == PhaseOut {
		return "out"
	}
	return "in"
}

// Transition is an in-flight clone animation of one slide.
type Transition struct {
	Slide     Slide
	Phase     Phase
	Direction Direction
	Clone     Node

	done        *Completion
	slideDone   *Completion
	staggerDone *Completion
	engine      *transitionEngine
	poll        *animation.Timer
	removal     *animation.Timer
	cancels     []func()
	removed     bool
}

// Done returns a channel closed when the transition has visually completed.
func (t *Transition) Done() <-chan struct{} { return t.done.Done() }

type animStep struct {
	node Node
	to   Style
}

// transitionEngine animates transient clones of slides.
type transitionEngine struct {
	r      Renderer
	loop   *animation.Loop
	opts   func() *Options
	report func(kind errors.ErrorKind, err error, slide int)
	live   map[*Transition]struct{}
}

func newTransitionEngine(r Renderer, loop *animation.Loop, opts func() *Options, report func(errors.ErrorKind, error, int)) *transitionEngine {
	return &transitionEngine{
		r:      r,
		loop:   loop,
		opts:   opts,
		report: report,
		live:   make(map[*Transition]struct{}),
	}
}

// endpoints returns the start and end style of a slide for phase.
// Outgoing slides leave toward -direction; incoming slides arrive from
// +direction. Offsets are percentages.
func endpoints(phase Phase, dir Direction, offset float64) (from, to Style) {
	shift := float64(dir) * offset
	if phase == PhaseIn {
		return Style{TranslateX: shift, Opacity: 0}, Style{TranslateX: 0, Opacity: 1}
	}
	return Style{TranslateX: 0, Opacity: 1}, Style{TranslateX: -shift, Opacity: 0}
}

// animate clones s and runs phase on the clone. The returned transition's
// completion resolves once the slide-level and the stagger-level
// animations have both ended.
func (e *transitionEngine) animate(s Slide, phase Phase, dir Direction) *Transition {
	opts := e.opts()
	tr := &Transition{
		Slide:       s,
		Phase:       phase,
		Direction:   dir,
		done:        newCompletion(),
		slideDone:   resolvedCompletion(),
		staggerDone: resolvedCompletion(),
		engine:      e,
	}
	e.live[tr] = struct{}{}
	tr.Clone = e.r.CloneForTransition(s.Node)

	base := opts.BaseDuration
	from, to := endpoints(phase, dir, opts.TranslateOffset)
	children := staggered(tr.Clone)

	var steps []animStep
	var lead Node
	if len(children) == 0 {
		e.r.ApplyPhase(tr.Clone, from)
		target := to
		target.Duration = base
		target.Easing = animation.DefaultEasing
		steps = append(steps, animStep{node: tr.Clone, to: target})
		tr.slideDone = newCompletion()
	} else {
		// The clone itself stays at rest; its children carry the motion.
		e.r.ApplyPhase(tr.Clone, Style{Opacity: 1})
		leadOrder := 0
		for _, child := range children {
			e.r.ApplyPhase(child.Node, from)
			target := to
			target.Delay = opts.TransitionDelay(child.Order, base)
			target.Duration = opts.TransitionDuration(child.Order, base)
			target.Easing = opts.TransitionEasing(child.Order, base)
			steps = append(steps, animStep{node: child.Node, to: target})
			if child.Order >= leadOrder {
				leadOrder = child.Order
				lead = child.Node
			}
		}
		tr.staggerDone = newCompletion()
	}

	var total time.Duration
	for _, st := range steps {
		if t := st.to.Total(); t > total {
			total = t
		}
	}

	all(tr.slideDone, tr.staggerDone).Then(tr.done.resolve)

	e.r.Insert(tr.Clone)
	e.r.Flush()

	var check func()
	check = func() {
		tr.poll = nil
		ready, attached := e.r.ImagesReady(tr.Clone)
		if !attached {
			e.report(errors.KindAnimation, errors.ErrNodeGone, s.Index)
			tr.removal = e.loop.AfterFunc(total, tr.finish)
			return
		}
		if !ready {
			tr.poll = e.loop.AfterFunc(animation.FrameInterval, check)
			return
		}
		for _, st := range steps {
			e.r.ApplyPhase(st.node, st.to)
		}
		if lead == nil {
			tr.cancels = append(tr.cancels, e.r.OnTransitionSettled(tr.Clone, tr.slideDone.resolve))
		} else {
			tr.cancels = append(tr.cancels, e.r.OnTransitionSettled(lead, tr.staggerDone.resolve))
		}
		tr.removal = e.loop.AfterFunc(total, tr.finish)
	}
	check()
	return tr
}

// finish removes the clone once the longest delay+duration has elapsed and
// resolves anything the renderer never signalled.
func (t *Transition) finish() {
	t.release()
	t.slideDone.resolve()
	t.staggerDone.resolve()
}

// cancel tears the transition down immediately.
func (t *Transition) cancel() {
	t.poll.Stop()
	t.removal.Stop()
	t.finish()
}

func (t *Transition) release() {
	for _, cancel := range t.cancels {
		if cancel != nil {
			cancel()
		}
	}
	t.cancels = nil
	if !t.removed {
		t.removed = true
		t.engine.r.RemoveClone(t.Clone)
	}
	delete(t.engine.live, t)
}

// cancelAll stops every live transition.
func (e *transitionEngine) cancelAll() {
	for tr := range e.live {
		tr.cancel()
	}
}

// inFlight returns the number of live transitions.
func (e *transitionEngine) inFlight() int { return len(e.live) }
