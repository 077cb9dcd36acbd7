package errors

import (
	"fmt"
	"os"
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

var (
	loggerMu sync.RWMutex
	logger   = funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(os.Stderr, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(os.Stderr, args)
	}, funcr.Options{}).WithName("mountgraph")
)

// SetLogger replaces the package logger used by LogHandler instances that
// do not carry their own. Returns the previous logger.
func SetLogger(l logr.Logger) logr.Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	prev := logger
	logger = l
	return prev
}

// Logger returns the package logger.
func Logger() logr.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// LogHandler is an ErrorHandler that writes through a logr.Logger.
type LogHandler struct {
	// Log overrides the package logger when set.
	Log *logr.Logger
	// Verbose enables stack traces in the output.
	Verbose bool
}

func (h *LogHandler) log() logr.Logger {
	if h.Log != nil {
		return *h.Log
	}
	return Logger()
}

// HandleError logs a DriftError.
func (h *LogHandler) HandleError(err *DriftError) {
	if err == nil {
		return
	}
	kv := []any{"op", err.Op, "kind", err.Kind.String()}
	if h.Verbose && err.StackTrace != "" {
		kv = append(kv, "stack", err.StackTrace)
	}
	h.log().Error(err.Err, "engine error", kv...)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	kv := []any{"op", err.Op, "value", fmt.Sprint(err.Value)}
	if h.Verbose && err.StackTrace != "" {
		kv = append(kv, "stack", err.StackTrace)
	}
	h.log().Error(nil, "recovered panic", kv...)
}

// HandleComponentError logs a ComponentError with its component stack.
func (h *LogHandler) HandleComponentError(err *ComponentError) {
	if err == nil {
		return
	}
	kv := []any{"component", err.Component, "key", err.Key, "phase", err.Phase, "componentStack", err.Stack}
	if err.LogTag != "" {
		kv = append(kv, "tag", err.LogTag)
	}
	if h.Verbose && err.StackTrace != "" {
		kv = append(kv, "stack", err.StackTrace)
	}
	h.log().Error(err.Err, "component failure", kv...)
}

// HandleWarning logs a diagnostic at warning severity.
func (h *LogHandler) HandleWarning(w *Warning) {
	if w == nil {
		return
	}
	h.log().Info(w.Msg, "severity", "warning", "op", w.Op, "component", w.Component, "key", w.Key)
}
