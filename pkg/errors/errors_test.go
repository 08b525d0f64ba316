package errors

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCarouselErrorString(t *testing.T) {
	err := New("carousel.Move", KindNavigation, ErrUnknownName)
	got := err.Error()
	want := "carousel.Move [navigation]: no slide with that name"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestCarouselErrorWithSlide(t *testing.T) {
	err := &CarouselError{Op: "carousel.Move", Kind: KindNavigation, Err: ErrOutOfRange, Slide: 7}
	got := err.Error()
	if !strings.Contains(got, "slide=7") {
		t.Errorf("error string %q should contain %q", got, "slide=7")
	}
	if !Is(err, ErrOutOfRange) {
		t.Error("expected errors.Is to see the wrapped sentinel")
	}
	var ce *CarouselError
	if !As(err, &ce) || ce.Slide != 7 {
		t.Error("expected errors.As to recover the CarouselError")
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindNavigation, "navigation"},
		{KindMount, "mount"},
		{KindAnimation, "animation"},
		{KindConfig, "config"},
		{KindPanic, "panic"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "boom", Timestamp: time.Now()}
	if got, want := err.Error(), "panic: boom"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
	err.Op = "carousel.OnActiveChange"
	if got, want := err.Error(), "panic in carousel.OnActiveChange: boom"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestReport(t *testing.T) {
	var captured *CarouselError
	handler := &testHandler{onError: func(err *CarouselError) { captured = err }}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	Report(New("test.op", KindMount, ErrNoSlides))

	if captured == nil {
		t.Fatal("expected error to be captured")
	}
	if captured.Op != "test.op" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.op")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestReportToPrefersExplicitHandler(t *testing.T) {
	global := 0
	local := 0
	oldHandler := DefaultHandler
	SetHandler(&testHandler{onError: func(*CarouselError) { global++ }})
	defer SetHandler(oldHandler)

	ReportTo(&testHandler{onError: func(*CarouselError) { local++ }}, New("op", KindNavigation, ErrOutOfRange))
	ReportTo(nil, nil)

	if local != 1 || global != 0 {
		t.Errorf("local=%d global=%d, want 1 and 0", local, global)
	}
}

func TestRecover(t *testing.T) {
	var captured *PanicError
	oldHandler := DefaultHandler
	SetHandler(&testHandler{onPanic: func(err *PanicError) { captured = err }})
	defer SetHandler(oldHandler)

	func() {
		defer Recover("test.recover")
		panic("intentional test panic")
	}()

	if captured == nil {
		t.Fatal("expected panic to be recovered and captured")
	}
	if captured.Op != "test.recover" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.recover")
	}
}

func TestGuard(t *testing.T) {
	var captured *PanicError
	h := &testHandler{onPanic: func(err *PanicError) { captured = err }}

	if Guard(h, "ok", func() {}) {
		t.Error("Guard reported a panic for a clean call")
	}
	if !Guard(h, "callback", func() { panic(42) }) {
		t.Fatal("Guard did not report the panic")
	}
	if captured == nil || captured.Value != 42 || captured.Op != "callback" {
		t.Errorf("captured = %+v, want value 42 in op callback", captured)
	}
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	if stack == "" {
		t.Error("expected non-empty stack trace")
	}
	if !strings.Contains(stack, "testing") && !strings.Contains(stack, "runtime") {
		t.Errorf("stack trace should contain testing or runtime frames, got: %s", stack)
	}
}

func TestSetHandlerNil(t *testing.T) {
	oldHandler := DefaultHandler
	defer SetHandler(oldHandler)

	SetHandler(nil)
	if _, ok := DefaultHandler.(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should set LogHandler, got %T", DefaultHandler)
	}
}

func TestLogHandlerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := NewLogHandler(zap.New(core), true)

	h.HandleError(&CarouselError{
		Op: "carousel.Move", Kind: KindNavigation, Err: ErrOutOfRange,
		Carousel: "c1", Slide: 9, StackTrace: "stack",
	})
	h.HandleError(New("carousel.Mount", KindMount, ErrNoContainer))
	h.HandlePanic(&PanicError{Op: "cb", Value: "boom"})
	h.HandleError(nil)
	h.HandlePanic(nil)

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Errorf("navigation level = %v, want warn", entries[0].Level)
	}
	ctx := entries[0].ContextMap()
	if ctx["slide"] != int64(9) || ctx["carousel"] != "c1" || ctx["stack"] != "stack" {
		t.Errorf("navigation fields = %v", ctx)
	}
	if entries[1].Level != zapcore.ErrorLevel {
		t.Errorf("mount level = %v, want error", entries[1].Level)
	}
	if _, ok := entries[1].ContextMap()["slide"]; ok {
		t.Error("slide field should be omitted when Slide is -1")
	}
	if entries[2].Message != "carousel panic recovered" {
		t.Errorf("panic message = %q", entries[2].Message)
	}
}

type testHandler struct {
	onError func(*CarouselError)
	onPanic func(*PanicError)
}

func (h *testHandler) HandleError(err *CarouselError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}
