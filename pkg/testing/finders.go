package testing

import (
	"fmt"
	"strings"

	"github.com/go-drift/carousel/pkg/carousel"
	"github.com/go-drift/carousel/pkg/dom"
)

// Finder locates elements in the document.
type Finder interface {
	// Evaluate returns all matching elements under root (depth-first pre-order).
	Evaluate(root *dom.Element) []*dom.Element
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	elements []*dom.Element
	finder   Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *dom.Element {
	if len(r.elements) == 0 {
		panic(fmt.Sprintf("Finder found no elements: %s", r.description()))
	}
	return r.elements[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *dom.Element {
	if len(r.elements) == 0 {
		return nil
	}
	return r.elements[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *dom.Element {
	if index < 0 || index >= len(r.elements) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.elements), r.description()))
	}
	return r.elements[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []*dom.Element {
	return r.elements
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.elements)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.elements) > 0
}

func (r FinderResult) description() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// --- Concrete finders ---

// predicateFinder matches elements satisfying a predicate.
type predicateFinder struct {
	fn   func(*dom.Element) bool
	desc string
}

func (f *predicateFinder) Evaluate(root *dom.Element) []*dom.Element {
	return collectMatches(root, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByPredicate returns a finder that matches elements satisfying fn.
func ByPredicate(fn func(*dom.Element) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}

// ByAttr matches elements whose attribute name equals value. An empty
// value matches any element carrying the attribute.
func ByAttr(name, value string) Finder {
	return &predicateFinder{
		fn: func(e *dom.Element) bool {
			v, ok := e.Attr(name)
			return ok && (value == "" || v == value)
		},
		desc: fmt.Sprintf("ByAttr(%s=%q)", name, value),
	}
}

// BySlide matches original slides, or the original slide called name
// when name is non-empty. Clones are excluded.
func BySlide(name string) Finder {
	return &predicateFinder{
		fn: func(e *dom.Element) bool {
			v, ok := e.Attr(carousel.AttrSlide)
			return ok && !e.Clone() && (name == "" || v == name)
		},
		desc: fmt.Sprintf("BySlide(%q)", name),
	}
}

// ActiveSlide matches slides carrying the active marker.
func ActiveSlide() Finder {
	return &predicateFinder{
		fn: func(e *dom.Element) bool {
			_, ok := e.Attr(carousel.AttrSlide)
			return ok && e.Active()
		},
		desc: "ActiveSlide()",
	}
}

// ByClone matches transition clones.
func ByClone() Finder {
	return &predicateFinder{
		fn:   (*dom.Element).Clone,
		desc: "ByClone()",
	}
}

// ByProgress matches progress indicators outside clones.
func ByProgress() Finder {
	return &predicateFinder{
		fn: func(e *dom.Element) bool {
			_, ok := e.Attr(carousel.AttrProgress)
			return ok && !insideClone(e)
		},
		desc: "ByProgress()",
	}
}

// ByText matches text elements with exact content.
func ByText(text string) Finder {
	return &predicateFinder{
		fn:   func(e *dom.Element) bool { return e.Text == text },
		desc: fmt.Sprintf("ByText(%q)", text),
	}
}

// ByTextContaining matches text elements containing substring.
func ByTextContaining(substring string) Finder {
	return &predicateFinder{
		fn: func(e *dom.Element) bool {
			return e.Text != "" && strings.Contains(e.Text, substring)
		},
		desc: fmt.Sprintf("ByTextContaining(%q)", substring),
	}
}

// descendantFinder finds elements matching 'matching' that are descendants
// of elements matching 'of'.
type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root *dom.Element) []*dom.Element {
	var results []*dom.Element
	seen := make(map[*dom.Element]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		// Search within each ancestor's subtree (skip the ancestor itself)
		for _, child := range ancestor.Elements() {
			for _, match := range f.matching.Evaluate(child) {
				if !seen[match] {
					seen[match] = true
					results = append(results, match)
				}
			}
		}
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches elements satisfying 'matching'
// that are descendants of elements matching 'of'.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

func insideClone(e *dom.Element) bool {
	for n := e; n != nil; n = n.Parent() {
		if n.Clone() {
			return true
		}
	}
	return false
}

// collectMatches performs depth-first pre-order traversal, collecting
// elements that satisfy the predicate.
func collectMatches(root *dom.Element, predicate func(*dom.Element) bool) []*dom.Element {
	var results []*dom.Element
	root.Walk(func(e *dom.Element) bool {
		if predicate(e) {
			results = append(results, e)
		}
		return true
	})
	return results
}
