package carousel

import (
	"github.com/go-drift/carousel/pkg/animation"
)

type progressState int

const (
	progressInitializing progressState = iota
	progressRunning
	progressPaused
	progressResetPending
)

func (s progressState) String() string {
	switch s {
	case progressInitializing:
		return "initializing"
	case progressRunning:
		return "running"
	case progressPaused:
		return "paused"
	default:
		return "reset-pending"
	}
}

// progressAnimator drives the autoplay cycle and mirrors it onto every
// progress indicator. A single controller times the cycle; indicators bound
// to other slides are forced invisible.
type progressAnimator struct {
	r          Renderer
	reg        registry
	opts       func() *Options
	activeName func() string

	ctrl    *animation.AnimationController
	state   progressState
	visible bool
	cycle   uint64

	// onCycleEnd receives the identity of the cycle whose animation ended.
	onCycleEnd func(cycle uint64)

	unsubscribe []func()
}

func newProgressAnimator(r Renderer, loop *animation.Loop, reg registry, opts func() *Options, activeName func() string) *progressAnimator {
	p := &progressAnimator{
		r:          r,
		reg:        reg,
		opts:       opts,
		activeName: activeName,
		ctrl:       animation.NewAnimationController(loop, opts().AutoplaySpeed),
		state:      progressInitializing,
	}
	p.ctrl.Curve = animation.LinearCurve
	p.unsubscribe = append(p.unsubscribe,
		p.ctrl.AddListener(p.render),
		p.ctrl.AddStatusListener(func(s animation.AnimationStatus) {
			if s != animation.AnimationCompleted || p.state != progressRunning {
				return
			}
			if p.onCycleEnd != nil {
				p.onCycleEnd(p.cycle)
			}
		}),
	)
	return p
}

// play shows the indicators and resumes the cycle, restarting it after a
// reset or a stop, on first run or once the previous cycle completed.
func (p *progressAnimator) play() {
	p.visible = true
	switch {
	case p.state == progressInitializing, p.state == progressResetPending, p.ctrl.IsCompleted():
		p.restart()
	default:
		p.ctrl.Forward()
	}
	p.state = progressRunning
	p.render()
}

func (p *progressAnimator) restart() {
	p.cycle++
	p.ctrl.Reset()
	p.ctrl.Duration = p.opts().AutoplaySpeed
	// Reflow so the indicator does not continue a stale animation.
	p.r.Flush()
	p.ctrl.Forward()
}

// stop freezes the cycle. Paused indicators stay visible and resume where
// they froze; stopped ones are hidden and restart on the next play.
func (p *progressAnimator) stop(pause bool) {
	p.ctrl.Stop()
	switch {
	case p.state == progressInitializing:
	case !pause:
		p.state = progressResetPending
	case p.state == progressRunning:
		p.state = progressPaused
	}
	p.visible = pause
	p.render()
}

// reset marks the cycle for restart on the next play.
func (p *progressAnimator) reset() {
	p.ctrl.Stop()
	if p.state != progressInitializing {
		p.state = progressResetPending
	}
	p.render()
}

func (p *progressAnimator) render() {
	opts := p.opts()
	active := p.activeName()
	for _, ind := range p.reg.indicators() {
		style := IndicatorStyle{
			Progress: p.ctrl.Value,
			Duration: p.ctrl.Duration,
			Running:  p.state == progressRunning && p.ctrl.IsAnimating(),
		}
		if opts.AutoplayProgress && p.visible && ind.Bound(active) {
			style.Opacity = 1
		}
		p.r.ApplyIndicator(ind.Node, style)
	}
}

func (p *progressAnimator) dispose() {
	for _, fn := range p.unsubscribe {
		fn()
	}
	p.unsubscribe = nil
	p.ctrl.Dispose()
}
