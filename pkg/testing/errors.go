package testing

import (
	"sync"

	"github.com/go-drift/carousel/pkg/errors"
)

// ErrorRecorder is an errors.Handler that keeps everything it receives.
type ErrorRecorder struct {
	mu     sync.Mutex
	errs   []*errors.CarouselError
	panics []*errors.PanicError
}

var _ errors.Handler = (*ErrorRecorder)(nil)

// HandleError implements errors.Handler.
func (r *ErrorRecorder) HandleError(err *errors.CarouselError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

// HandlePanic implements errors.Handler.
func (r *ErrorRecorder) HandlePanic(err *errors.PanicError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.panics = append(r.panics, err)
}

// Errors returns the recorded errors in report order.
func (r *ErrorRecorder) Errors() []*errors.CarouselError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*errors.CarouselError(nil), r.errs...)
}

// Panics returns the recorded panics in report order.
func (r *ErrorRecorder) Panics() []*errors.PanicError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*errors.PanicError(nil), r.panics...)
}

// Has reports whether a recorded error of kind wraps target.
func (r *ErrorRecorder) Has(kind errors.ErrorKind, target error) bool {
	for _, err := range r.Errors() {
		if err.Kind == kind && errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Reset forgets everything recorded so far.
func (r *ErrorRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = nil
	r.panics = nil
}
