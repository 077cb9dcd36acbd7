// Package errors provides structured error handling for the mountgraph engine.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindUsage indicates an invalid configuration supplied by the caller.
	KindUsage
	// KindRender indicates a failure inside an application render callback.
	KindRender
	// KindLayout indicates a failure while measuring or laying out nodes.
	KindLayout
	// KindConcurrency indicates a violated threading or lifecycle invariant.
	KindConcurrency
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindUsage:
		return "usage"
	case KindRender:
		return "render"
	case KindLayout:
		return "layout"
	case KindConcurrency:
		return "concurrency"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

var (
	// ErrInterrupted is returned by a layout calculation that stopped at a
	// checkpoint because a newer request superseded it or a synchronous
	// caller claimed it.
	ErrInterrupted = stderrors.New("layout calculation interrupted")

	// ErrReleased is returned by tree operations after Release.
	ErrReleased = stderrors.New("tree has been released")
)

// DriftError represents a structured error raised by the engine itself.
type DriftError struct {
	// Op is the operation that failed (e.g., "mount.MountState.Mount").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *DriftError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *DriftError) Unwrap() error {
	return e.Err
}

// Concurrency builds the error raised when a mount or pool invariant is
// violated. Callers panic with it.
func Concurrency(op, format string, args ...any) *DriftError {
	return &DriftError{
		Op:         op,
		Kind:       KindConcurrency,
		Err:        fmt.Errorf(format, args...),
		StackTrace: CaptureStack(),
		Timestamp:  time.Now(),
	}
}

// UsageError reports an invalid configuration at the call that introduced it.
type UsageError struct {
	// Op is the call that received the invalid configuration.
	Op string
	// Msg describes the problem.
	Msg string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

// Usage returns a *UsageError with a formatted message.
func Usage(op, format string, args ...any) *UsageError {
	return &UsageError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// IsUsage reports whether err is or wraps a *UsageError.
func IsUsage(err error) bool {
	var u *UsageError
	return stderrors.As(err, &u)
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked.
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

// ComponentError wraps a failure raised by an application callback during
// tree resolution, annotated with the component stack.
type ComponentError struct {
	// Component is the type name of the component that failed.
	Component string
	// Key is the global key of the failing component.
	Key string
	// Phase is the callback that failed ("render", "measure", "mount").
	Phase string
	// Stack lists component type names from the failing component outwards
	// through its owners.
	Stack []string
	// LogTag is the tree's configured log tag, if any.
	LogTag string
	// Recovered is the panic value (nil for returned errors).
	Recovered any
	// Err is the underlying error (nil for panics with non-error values).
	Err error
	// StackTrace contains the Go call stack at the failure point.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *ComponentError) Error() string {
	var sb strings.Builder
	if e.LogTag != "" {
		sb.WriteString("[")
		sb.WriteString(e.LogTag)
		sb.WriteString("] ")
	}
	switch {
	case e.Err != nil:
		fmt.Fprintf(&sb, "error in %s.%s(): %v", e.Component, phaseName(e.Phase), e.Err)
	case e.Recovered != nil:
		fmt.Fprintf(&sb, "panic in %s.%s(): %v", e.Component, phaseName(e.Phase), e.Recovered)
	default:
		fmt.Fprintf(&sb, "unknown error in %s.%s()", e.Component, phaseName(e.Phase))
	}
	if len(e.Stack) > 0 {
		sb.WriteString("\ncomponent stack:")
		for _, name := range e.Stack {
			sb.WriteString("\n  at ")
			sb.WriteString(name)
		}
	}
	return sb.String()
}

func (e *ComponentError) Unwrap() error {
	return e.Err
}

func phaseName(phase string) string {
	if phase == "" {
		return "Render"
	}
	return strings.ToUpper(phase[:1]) + phase[1:]
}

// AsComponentError returns the innermost *ComponentError wrapped by err.
func AsComponentError(err error) (*ComponentError, bool) {
	var ce *ComponentError
	if !stderrors.As(err, &ce) {
		return nil, false
	}
	for {
		var inner *ComponentError
		if ce.Err == nil || !stderrors.As(ce.Err, &inner) {
			return ce, true
		}
		ce = inner
	}
}

// Warning is a recoverable diagnostic, such as a duplicate manual key.
type Warning struct {
	// Op is the subsystem emitting the warning.
	Op string
	// Component is the type name of the offending component.
	Component string
	// Key is the key involved, if any.
	Key string
	// Msg describes the condition.
	Msg string
}

func (w *Warning) String() string {
	if w.Key != "" {
		return fmt.Sprintf("%s: %s (component=%s key=%q)", w.Op, w.Msg, w.Component, w.Key)
	}
	return fmt.Sprintf("%s: %s (component=%s)", w.Op, w.Msg, w.Component)
}

// ErrorHandler receives errors reported by the engine.
type ErrorHandler interface {
	// HandleError is called when an engine error occurs.
	HandleError(err *DriftError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleComponentError is called when an application callback fails.
	HandleComponentError(err *ComponentError)
	// HandleWarning is called for recoverable diagnostics.
	HandleWarning(w *Warning)
}
