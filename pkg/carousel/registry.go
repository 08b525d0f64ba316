package carousel

import (
	"strconv"
	"strings"
)

// Slide is a navigable panel of the carousel.
type Slide struct {
	Index int
	Name  string
	Node  Node
}

// Indicator is a progress indicator bound to a slide name. An empty For
// binds it to every slide.
type Indicator struct {
	For  string
	Node Node
}

// Bound reports whether the indicator belongs to the slide called name.
func (i Indicator) Bound(name string) bool {
	return i.For == "" || i.For == name
}

type staggeredNode struct {
	Node  Node
	Order int
}

// registry reads slides and indicators from the renderer on demand. It
// holds no copies, so every scan sees the current tree.
type registry struct {
	r Renderer
}

func markerValue(n Node, attr string) (string, bool) {
	v, ok := n.Attr(attr)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	if v == "true" {
		v = ""
	}
	return v, true
}

func isClone(n Node) bool {
	_, ok := n.Attr(AttrClone)
	return ok
}

func (g registry) slides() []Slide {
	root := g.r.Root()
	if root == nil {
		return nil
	}
	var out []Slide
	for _, child := range root.Children() {
		if child == nil || isClone(child) {
			continue
		}
		name, ok := markerValue(child, AttrSlide)
		if !ok {
			continue
		}
		out = append(out, Slide{Index: len(out), Name: name, Node: child})
	}
	return out
}

func (g registry) indicators() []Indicator {
	root := g.r.Root()
	if root == nil {
		return nil
	}
	var out []Indicator
	var walk func(n Node)
	walk = func(n Node) {
		for _, child := range n.Children() {
			if child == nil || isClone(child) {
				continue
			}
			if name, ok := markerValue(child, AttrProgress); ok {
				out = append(out, Indicator{For: name, Node: child})
			}
			walk(child)
		}
	}
	walk(root)
	return out
}

// indexOf returns the index of the slide called name.
func (g registry) indexOf(name string) (int, bool) {
	for _, s := range g.slides() {
		if s.Name == name && name != "" {
			return s.Index, true
		}
	}
	return -1, false
}

// staggered returns the staggered descendants of n in document order.
// Orders below 1 or unparsable values count as 1.
func staggered(n Node) []staggeredNode {
	var out []staggeredNode
	var walk func(n Node)
	walk = func(n Node) {
		for _, child := range n.Children() {
			if child == nil {
				continue
			}
			if v, ok := child.Attr(AttrStaggered); ok {
				order, err := strconv.Atoi(strings.TrimSpace(v))
				if err != nil || order < 1 {
					order = 1
				}
				out = append(out, staggeredNode{Node: child, Order: order})
			}
			walk(child)
		}
	}
	walk(n)
	return out
}
