package carousel

import (
	"fmt"

	"github.com/go-drift/carousel/pkg/errors"
)

// Direction is the way a transition moves: Backward (-1), None (0) or
// Forward (+1).
type Direction int

const (
	Backward Direction = -1
	None     Direction = 0
	Forward  Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Backward:
		return "backward"
	case None:
		return "none"
	case Forward:
		return "forward"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

type targetKind int

const (
	targetNext targetKind = iota
	targetPrevious
	targetIndex
	targetNamed
)

// Target is a navigation request. The zero value advances by one.
type Target struct {
	kind  targetKind
	index int
	name  string
}

// Next requests the slide after the active one, wrapping last to first.
func Next() Target { return Target{kind: targetNext} }

// Previous requests the slide before the active one, wrapping first to last.
func Previous() Target { return Target{kind: targetPrevious} }

// Index requests the slide at i. Index(-1) is the retreat sentinel and
// behaves like Previous.
func Index(i int) Target {
	if i == -1 {
		return Previous()
	}
	return Target{kind: targetIndex, index: i}
}

// Named requests the slide whose marker value is name.
func Named(name string) Target { return Target{kind: targetNamed, name: name} }

// Explicit reports whether the target names a specific slide.
func (t Target) Explicit() bool {
	return t.kind == targetIndex || t.kind == targetNamed
}

func (t Target) String() string {
	switch t.kind {
	case targetNext:
		return "next"
	case targetPrevious:
		return "previous"
	case targetIndex:
		return fmt.Sprintf("index %d", t.index)
	default:
		return fmt.Sprintf("name %q", t.name)
	}
}

// NextIndex returns the index after current, wrapping last to 0.
func NextIndex(current, last int) int {
	if current >= last {
		return 0
	}
	return current + 1
}

// PreviousIndex returns the index before current, wrapping 0 to last.
func PreviousIndex(current, last int) int {
	if current <= 0 {
		return last
	}
	return current - 1
}

// ResolveTarget maps t to a slide index given the active index and the
// last valid index. Named targets must be resolved by the caller; they map
// to -1 here.
func ResolveTarget(current int, t Target, last int) int {
	switch t.kind {
	case targetNext:
		return NextIndex(current, last)
	case targetPrevious:
		return PreviousIndex(current, last)
	case targetIndex:
		return t.index
	default:
		return -1
	}
}

// ResolveDirection computes the direction of a move from current to next.
//
// Implicit moves (Next, Previous) always animate forward and backward
// respectively. Explicit moves use the sign of next-current, except that
// jumping from the last slide to the first animates forward and from the
// first to the last animates backward, the way looping would. With only two
// slides every jump is adjacent, so the plain sign is used.
//
// Equal indices return None. An index outside [0, last] returns
// errors.ErrOutOfRange.
func ResolveDirection(current, next, last int, t Target) (Direction, error) {
	if next < 0 || next > last {
		return None, errors.ErrOutOfRange
	}
	if next == current {
		return None, nil
	}
	switch t.kind {
	case targetNext:
		return Forward, nil
	case targetPrevious:
		return Backward, nil
	}
	if last >= 2 {
		if current == last && next == 0 {
			return Forward, nil
		}
		if current == 0 && next == last {
			return Backward, nil
		}
	}
	if next > current {
		return Forward, nil
	}
	return Backward, nil
}
