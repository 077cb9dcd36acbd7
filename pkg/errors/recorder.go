package errors

import "sync"

// Recorder is an ErrorHandler that keeps every report in memory. Tests
// install it with SetHandler to assert on diagnostics.
type Recorder struct {
	mu         sync.Mutex
	errors     []*DriftError
	panics     []*PanicError
	components []*ComponentError
	warnings   []*Warning
}

// HandleError records err.
func (r *Recorder) HandleError(err *DriftError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, err)
}

// HandlePanic records err.
func (r *Recorder) HandlePanic(err *PanicError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.panics = append(r.panics, err)
}

// HandleComponentError records err.
func (r *Recorder) HandleComponentError(err *ComponentError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components = append(r.components, err)
}

// HandleWarning records w.
func (r *Recorder) HandleWarning(w *Warning) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, w)
}

// Warnings returns a copy of the recorded warnings.
func (r *Recorder) Warnings() []*Warning {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Warning(nil), r.warnings...)
}

// ComponentErrors returns a copy of the recorded component errors.
func (r *Recorder) ComponentErrors() []*ComponentError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*ComponentError(nil), r.components...)
}

// Panics returns a copy of the recorded panics.
func (r *Recorder) Panics() []*PanicError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*PanicError(nil), r.panics...)
}

// Install sets r as the global handler and returns a function restoring
// the previous one.
func (r *Recorder) Install() func() {
	handlerMu.Lock()
	prev := DefaultHandler
	DefaultHandler = r
	handlerMu.Unlock()
	return func() { SetHandler(prev) }
}
