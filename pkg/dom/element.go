package dom

import (
	"sort"
	"strconv"
	"time"

	"github.com/go-drift/carousel/pkg/animation"
	"github.com/go-drift/carousel/pkg/carousel"
)

// Element is a node of a Document.
type Element struct {
	Tag  string
	Text string

	attrs    map[string]string
	children []*Element
	parent   *Element
	doc      *Document

	active bool
	height float64
	image  *image

	transition transition
	endTimer   *animation.Timer
	listeners  map[int]func()
	nextID     int

	indicator    carousel.IndicatorStyle
	hasIndicator bool
}

type image struct {
	src           string
	naturalHeight float64
}

// transition is the inline style of an element: it moves from `from` to
// `to` starting at start+to.Delay.
type transition struct {
	from  carousel.Style
	to    carousel.Style
	start time.Time
}

var restStyle = carousel.Style{Opacity: 1}

// NewElement creates a detached element.
func NewElement(tag string, children ...*Element) *Element {
	e := &Element{
		Tag:        tag,
		attrs:      make(map[string]string),
		transition: transition{from: restStyle, to: restStyle},
	}
	for _, child := range children {
		e.Append(child)
	}
	return e
}

// Container creates the carousel root element.
func Container(children ...*Element) *Element {
	return NewElement("div", children...)
}

// Slide creates a slide element. An empty name yields an unnamed slide.
func Slide(name string, children ...*Element) *Element {
	if name == "" {
		name = "true"
	}
	return NewElement("div", children...).SetAttr(carousel.AttrSlide, name)
}

// Progress creates a progress indicator bound to the slide called name, or
// to every slide when name is empty.
func Progress(name string) *Element {
	if name == "" {
		name = "true"
	}
	return NewElement("div").SetAttr(carousel.AttrProgress, name)
}

// Staggered creates an element animated at the given 1-based order.
func Staggered(order int, children ...*Element) *Element {
	return NewElement("div", children...).SetAttr(carousel.AttrStaggered, strconv.Itoa(order))
}

// Text creates a text element.
func Text(s string) *Element {
	e := NewElement("span")
	e.Text = s
	return e
}

// Img creates an image. A zero naturalHeight models an image that has not
// loaded yet; see Document.LoadImages.
func Img(src string, naturalHeight float64) *Element {
	e := NewElement("img").SetAttr("src", src)
	e.image = &image{src: src, naturalHeight: naturalHeight}
	return e
}

// SetAttr sets an attribute and returns e.
func (e *Element) SetAttr(name, value string) *Element {
	e.attrs[name] = value
	return e
}

// RemoveAttr deletes an attribute.
func (e *Element) RemoveAttr(name string) {
	delete(e.attrs, name)
}

// Attr returns the value of an attribute.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// Attrs returns the attribute names in sorted order.
func (e *Element) Attrs() []string {
	names := make([]string, 0, len(e.attrs))
	for name := range e.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithHeight fixes the layout height of e and returns it.
func (e *Element) WithHeight(h float64) *Element {
	e.height = h
	return e
}

// Children implements carousel.Node.
func (e *Element) Children() []carousel.Node {
	out := make([]carousel.Node, len(e.children))
	for i, child := range e.children {
		out[i] = child
	}
	return out
}

// Elements returns the child elements.
func (e *Element) Elements() []*Element {
	return append([]*Element(nil), e.children...)
}

// Parent returns the parent element, or nil.
func (e *Element) Parent() *Element { return e.parent }

// Append adds child as the last child of e, detaching it from any previous
// parent.
func (e *Element) Append(child *Element) {
	if child == nil {
		return
	}
	child.Detach()
	child.parent = e
	e.children = append(e.children, child)
	child.adopt(e.doc)
}

// Detach removes e from its parent.
func (e *Element) Detach() {
	p := e.parent
	if p == nil {
		return
	}
	for i, child := range p.children {
		if child == e {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	e.parent = nil
}

// Attached reports whether e is in its document's mounted tree.
func (e *Element) Attached() bool {
	if e.doc == nil || e.doc.root == nil {
		return false
	}
	for n := e; n != nil; n = n.parent {
		if n == e.doc.root {
			return true
		}
	}
	return false
}

// Active reports whether the element carries the active marker.
func (e *Element) Active() bool { return e.active }

// Clone reports whether e is a transition clone.
func (e *Element) Clone() bool {
	_, ok := e.attrs[carousel.AttrClone]
	return ok
}

// Image reports the source and intrinsic height of an img element.
func (e *Element) Image() (src string, naturalHeight float64, ok bool) {
	if e.image == nil {
		return "", 0, false
	}
	return e.image.src, e.image.naturalHeight, true
}

// Height returns the layout height: the fixed height if set, otherwise the
// tallest of the image and the children.
func (e *Element) Height() float64 {
	if e.height > 0 {
		return e.height
	}
	var h float64
	if e.image != nil {
		h = e.image.naturalHeight
	}
	for _, child := range e.children {
		if ch := child.Height(); ch > h {
			h = ch
		}
	}
	return h
}

// Style returns the style the element is transitioning to.
func (e *Element) Style() carousel.Style { return e.transition.to }

// Computed returns the translation (percent) and opacity of e at now.
func (e *Element) Computed(now time.Time) (translateX, opacity float64) {
	tr := e.transition
	elapsed := now.Sub(tr.start) - tr.to.Delay
	if elapsed < 0 {
		return tr.from.TranslateX, tr.from.Opacity
	}
	if tr.to.Duration <= 0 || elapsed >= tr.to.Duration {
		return tr.to.TranslateX, tr.to.Opacity
	}
	p := float64(elapsed) / float64(tr.to.Duration)
	move := animation.TweenFloat64(tr.from.TranslateX, tr.to.TranslateX)
	fade := animation.TweenFloat64(tr.from.Opacity, tr.to.Opacity)
	return move.Evaluate(ease(tr.to.Easing.Transform, p)), fade.Evaluate(ease(tr.to.Easing.Opacity, p))
}

func ease(curve func(float64) float64, p float64) float64 {
	if curve == nil {
		return p
	}
	return curve(p)
}

// Indicator returns the last style applied to a progress indicator.
func (e *Element) Indicator() (carousel.IndicatorStyle, bool) {
	return e.indicator, e.hasIndicator
}

// Walk calls fn for e and every descendant in document order. Returning
// false skips the element's subtree.
func (e *Element) Walk(fn func(*Element) bool) {
	if !fn(e) {
		return
	}
	for _, child := range e.Elements() {
		child.Walk(fn)
	}
}

func (e *Element) adopt(doc *Document) {
	e.Walk(func(n *Element) bool {
		n.doc = doc
		return true
	})
}

// deepClone copies e and its subtree, including the current inline style.
func (e *Element) deepClone() *Element {
	c := &Element{
		Tag:        e.Tag,
		Text:       e.Text,
		attrs:      make(map[string]string, len(e.attrs)),
		doc:        e.doc,
		active:     e.active,
		height:     e.height,
		transition: e.transition,
	}
	for k, v := range e.attrs {
		c.attrs[k] = v
	}
	if e.image != nil {
		img := *e.image
		c.image = &img
	}
	for _, child := range e.children {
		cc := child.deepClone()
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}

func (e *Element) addListener(fn func()) (cancel func()) {
	if e.listeners == nil {
		e.listeners = make(map[int]func())
	}
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	return func() { delete(e.listeners, id) }
}

// dispatchTransitionEnd runs transitionend listeners in registration
// order. Detached elements receive no events.
func (e *Element) dispatchTransitionEnd() {
	e.endTimer = nil
	if !e.Attached() {
		return
	}
	ids := make([]int, 0, len(e.listeners))
	for id := range e.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := e.listeners[id]; ok {
			fn()
		}
	}
}
