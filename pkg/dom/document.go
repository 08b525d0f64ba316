package dom

import (
	"sort"

	"github.com/go-drift/carousel/pkg/animation"
	"github.com/go-drift/carousel/pkg/carousel"
)

// Document owns a mounted container and implements carousel.Renderer.
type Document struct {
	loop *animation.Loop
	root *Element

	hover   map[int]hoverListener
	hoverID int
	hovered bool

	containerHeight float64
	reflows         int
}

type hoverListener struct {
	enter, leave func()
}

var _ carousel.Renderer = (*Document)(nil)

// NewDocument creates an empty document whose transitions are timed by
// loop.
func NewDocument(loop *animation.Loop) *Document {
	return &Document{
		loop:  loop,
		hover: make(map[int]hoverListener),
	}
}

// Mount makes root the container.
func (d *Document) Mount(root *Element) {
	if root != nil {
		root.Detach()
		root.adopt(d)
	}
	d.root = root
}

// Unmount removes the container. Pending transitionend events for its
// elements are dropped.
func (d *Document) Unmount() {
	d.root = nil
	d.hovered = false
}

// Container returns the mounted container, or nil.
func (d *Document) Container() *Element { return d.root }

// Loop returns the loop timing the document's transitions.
func (d *Document) Loop() *animation.Loop { return d.loop }

// Root implements carousel.Renderer.
func (d *Document) Root() carousel.Node {
	if d.root == nil {
		return nil
	}
	return d.root
}

// SetActive implements carousel.Renderer.
func (d *Document) SetActive(n carousel.Node, active bool) {
	if e := element(n); e != nil {
		e.active = active
	}
}

// CloneForTransition implements carousel.Renderer.
func (d *Document) CloneForTransition(n carousel.Node) carousel.Node {
	e := element(n)
	if e == nil {
		return nil
	}
	c := e.deepClone()
	c.active = false
	c.attrs[carousel.AttrClone] = "true"
	return c
}

// Insert implements carousel.Renderer.
func (d *Document) Insert(clone carousel.Node) {
	if e := element(clone); e != nil && d.root != nil {
		d.root.Append(e)
	}
}

// Flush implements carousel.Renderer.
func (d *Document) Flush() { d.reflows++ }

// Reflows returns how many layout flushes were forced.
func (d *Document) Reflows() int { return d.reflows }

// ImagesReady implements carousel.Renderer.
func (d *Document) ImagesReady(n carousel.Node) (ready, attached bool) {
	e := element(n)
	if e == nil || !e.Attached() {
		return false, false
	}
	ready = true
	e.Walk(func(x *Element) bool {
		if x.image != nil && x.image.naturalHeight <= 0 {
			ready = false
		}
		return ready
	})
	return ready, true
}

// LoadImages sets the intrinsic height of every image with src in the
// document, clones included.
func (d *Document) LoadImages(src string, naturalHeight float64) {
	if d.root == nil {
		return
	}
	d.root.Walk(func(e *Element) bool {
		if e.image != nil && e.image.src == src {
			e.image.naturalHeight = naturalHeight
		}
		return true
	})
}

// ApplyPhase implements carousel.Renderer. The element transitions from
// its computed style at the current instant. A positive duration
// schedules a transitionend event after delay+duration and supersedes any
// pending one.
func (d *Document) ApplyPhase(n carousel.Node, s carousel.Style) {
	e := element(n)
	if e == nil {
		return
	}
	now := d.loop.Now()
	tx, op := e.Computed(now)
	e.transition = transition{
		from:  carousel.Style{TranslateX: tx, Opacity: op},
		to:    s,
		start: now,
	}
	e.endTimer.Stop()
	e.endTimer = nil
	if s.Duration > 0 {
		e.endTimer = d.loop.AfterFunc(s.Total(), e.dispatchTransitionEnd)
	}
}

// OnTransitionSettled implements carousel.Renderer.
func (d *Document) OnTransitionSettled(n carousel.Node, fn func()) (cancel func()) {
	e := element(n)
	if e == nil || fn == nil {
		return func() {}
	}
	return e.addListener(fn)
}

// RemoveClone implements carousel.Renderer.
func (d *Document) RemoveClone(clone carousel.Node) {
	e := element(clone)
	if e == nil {
		return
	}
	e.Detach()
	e.Walk(func(x *Element) bool {
		x.endTimer.Stop()
		x.endTimer = nil
		return true
	})
}

// Clones returns the transition clones currently in the container.
func (d *Document) Clones() []*Element {
	if d.root == nil {
		return nil
	}
	var out []*Element
	for _, child := range d.root.children {
		if child.Clone() {
			out = append(out, child)
		}
	}
	return out
}

// ApplyIndicator implements carousel.Renderer.
func (d *Document) ApplyIndicator(n carousel.Node, s carousel.IndicatorStyle) {
	if e := element(n); e != nil {
		e.indicator = s
		e.hasIndicator = true
	}
}

// Height implements carousel.Renderer.
func (d *Document) Height(n carousel.Node) float64 {
	if e := element(n); e != nil {
		return e.Height()
	}
	return 0
}

// SetContainerHeight implements carousel.Renderer.
func (d *Document) SetContainerHeight(h float64) { d.containerHeight = h }

// ContainerHeight returns the height set by the carousel.
func (d *Document) ContainerHeight() float64 { return d.containerHeight }

// OnHover implements carousel.Renderer.
func (d *Document) OnHover(enter, leave func()) (cancel func()) {
	id := d.hoverID
	d.hoverID++
	d.hover[id] = hoverListener{enter: enter, leave: leave}
	return func() { delete(d.hover, id) }
}

// PointerEnter moves the pointer over the container.
func (d *Document) PointerEnter() {
	if d.hovered || d.root == nil {
		return
	}
	d.hovered = true
	for _, l := range d.hoverListeners() {
		if l.enter != nil {
			l.enter()
		}
	}
}

// PointerLeave moves the pointer off the container.
func (d *Document) PointerLeave() {
	if !d.hovered {
		return
	}
	d.hovered = false
	for _, l := range d.hoverListeners() {
		if l.leave != nil {
			l.leave()
		}
	}
}

// Hovered reports whether the pointer is over the container.
func (d *Document) Hovered() bool { return d.hovered }

func (d *Document) hoverListeners() []hoverListener {
	ids := make([]int, 0, len(d.hover))
	for id := range d.hover {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]hoverListener, len(ids))
	for i, id := range ids {
		out[i] = d.hover[id]
	}
	return out
}

func element(n carousel.Node) *Element {
	e, _ := n.(*Element)
	return e
}
