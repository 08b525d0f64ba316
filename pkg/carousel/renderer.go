package carousel

import (
	"time"

	"github.com/go-drift/carousel/pkg/animation"
)

// Markup attributes read by the engine.
const (
	AttrSlide     = "data-carousel-slide"
	AttrProgress  = "data-carousel-progress"
	AttrStaggered = "data-carousel-staggered"
	// AttrClone marks transient transition clones. Registry scans skip
	// them.
	AttrClone = "data-carousel-clone"
)

// Node is a read-only view of an element in the renderer's tree.
type Node interface {
	Attr(name string) (string, bool)
	Children() []Node
}

// Style is the visual state a transition animates an element to.
// TranslateX is a percentage of the element's own width. A zero Duration
// applies the style without a transition.
type Style struct {
	TranslateX float64
	Opacity    float64
	Delay      time.Duration
	Duration   time.Duration
	Easing     animation.Easing
}

// Total returns Delay+Duration.
func (s Style) Total() time.Duration { return s.Delay + s.Duration }

// IndicatorStyle is the visual state of a progress indicator. Progress is
// the fraction of the autoplay cycle elapsed; Duration is the full cycle.
type IndicatorStyle struct {
	Opacity  float64
	Progress float64
	Duration time.Duration
	Running  bool
}

// Renderer is the platform capability the engine mutates. A browser
// binding maps it onto the DOM; package dom provides a headless version.
//
// The engine is the only writer of the container subtree. Callers must not
// change slide markers while a carousel is mounted.
type Renderer interface {
	// Root returns the container, or nil if it is not mounted.
	Root() Node
	// SetActive toggles the "active" marker of an original slide.
	SetActive(n Node, active bool)

	// CloneForTransition deep-clones n, strips the active marker and tags
	// the copy with AttrClone. The clone is not yet in the tree.
	CloneForTransition(n Node) Node
	// Insert adds a clone to the container.
	Insert(clone Node)
	// Flush forces a style/layout flush so the next ApplyPhase animates
	// from the current state.
	Flush()
	// ImagesReady reports whether every image under n has a nonzero
	// intrinsic height, and whether n is still attached to the tree.
	ImagesReady(n Node) (ready, attached bool)
	// ApplyPhase sets n's style, transitioning from its current style.
	ApplyPhase(n Node, s Style)
	// OnTransitionSettled calls fn when n's current transition ends.
	OnTransitionSettled(n Node, fn func()) (cancel func())
	// RemoveClone detaches a clone from the tree.
	RemoveClone(clone Node)

	// ApplyIndicator updates a progress indicator.
	ApplyIndicator(n Node, s IndicatorStyle)

	// Height returns the rendered height of n.
	Height(n Node) float64
	// SetContainerHeight fixes the container height.
	SetContainerHeight(h float64)

	// OnHover registers pointer enter/leave callbacks for the container.
	OnHover(enter, leave func()) (cancel func())
}
