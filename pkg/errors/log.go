package errors

import (
	"sync"

	"go.uber.org/zap"
)

// LogHandler is a Handler that writes structured records through zap.
type LogHandler struct {
	// Logger receives the records. Nil uses a development console logger
	// writing to stderr.
	Logger *zap.Logger
	// Verbose adds stack traces to records.
	Verbose bool

	once     sync.Once
	fallback *zap.Logger
}

// NewLogHandler returns a handler writing to logger.
func NewLogHandler(logger *zap.Logger, verbose bool) *LogHandler {
	return &LogHandler{Logger: logger, Verbose: verbose}
}

func (h *LogHandler) logger() *zap.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	h.once.Do(func() {
		l, err := zap.NewDevelopment(zap.WithCaller(false))
		if err != nil {
			l = zap.NewNop()
		}
		h.fallback = l
	})
	return h.fallback
}

// HandleError logs a CarouselError. Navigation and animation problems are
// warnings; everything else is an error.
func (h *LogHandler) HandleError(err *CarouselError) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("op", err.Op),
		zap.Stringer("kind", err.Kind),
		zap.Error(err.Err),
	}
	if err.Carousel != "" {
		fields = append(fields, zap.String("carousel", err.Carousel))
	}
	if err.Slide >= 0 {
		fields = append(fields, zap.Int("slide", err.Slide))
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	switch err.Kind {
	case KindNavigation, KindAnimation:
		h.logger().Warn("carousel operation abandoned", fields...)
	default:
		h.logger().Error("carousel error", fields...)
	}
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	fields := []zap.Field{zap.Any("value", err.Value)}
	if err.Op != "" {
		fields = append(fields, zap.String("op", err.Op))
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.logger().Error("carousel panic recovered", fields...)
}
