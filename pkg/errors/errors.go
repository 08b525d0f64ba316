// Package errors provides structured error reporting for the carousel engine.
//
// Carousel operations never return errors to their callers: navigation to a
// missing slide, a missing container or a stalled animation is reported to
// a [Handler] and the operation is abandoned with state unchanged.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindNavigation indicates an invalid navigation target.
	KindNavigation
	// KindMount indicates missing container or slide prerequisites.
	KindMount
	// KindAnimation indicates a degraded or abandoned animation.
	KindAnimation
	// KindConfig indicates an invalid configuration.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindNavigation:
		return "navigation"
	case KindMount:
		return "mount"
	case KindAnimation:
		return "animation"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Sentinel causes wrapped by CarouselError.
var (
	ErrOutOfRange  = errors.New("slide index out of range")
	ErrUnknownName = errors.New("no slide with that name")
	ErrNoContainer = errors.New("no container")
	ErrNoSlides    = errors.New("container has no slides")
	ErrCleanedUp   = errors.New("carousel was cleaned up")
	ErrNodeGone    = errors.New("node left the document")
)

// CarouselError represents a structured carousel failure.
type CarouselError struct {
	// Op is the operation that failed (e.g., "carousel.Move").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Carousel identifies the instance that reported the error.
	Carousel string
	// Slide is the slide index involved, or -1.
	Slide int
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *CarouselError) Error() string {
	if e.Slide >= 0 {
		return fmt.Sprintf("%s [%s] slide=%d: %v", e.Op, e.Kind, e.Slide, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *CarouselError) Unwrap() error {
	return e.Err
}

// New builds a CarouselError not tied to a slide.
func New(op string, kind ErrorKind, err error) *CarouselError {
	return &CarouselError{Op: op, Kind: kind, Err: err, Slide: -1}
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "carousel.OnActiveChange").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Handler receives errors reported by the carousel engine.
type Handler interface {
	// HandleError is called when an operation is abandoned.
	HandleError(err *CarouselError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return errors.As(err, target) }
