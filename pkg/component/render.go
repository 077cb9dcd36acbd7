package component

import (
	stderrors "errors"
	"time"

	"github.com/go-drift/mountgraph/pkg/errors"
)

// RenderSafely calls c.Render and converts a panic into a
// *errors.ComponentError for the component at key. A panic carrying an
// existing *errors.ComponentError is returned unchanged so the deepest
// failure point survives re-raises.
func RenderSafely(c Composite, ctx *Context) (out Component, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = Recovered(c, ctx.GlobalKey(), "render", r)
		}
	}()
	return c.Render(ctx), nil
}

// Recovered converts a recovered panic value into a component error.
func Recovered(c Component, key, phase string, r any) error {
	if re, ok := r.(error); ok {
		var ce *errors.ComponentError
		if stderrors.As(re, &ce) {
			return re
		}
	}
	ce := &errors.ComponentError{
		Component:  TypeName(c),
		Key:        key,
		Phase:      phase,
		Recovered:  r,
		StackTrace: errors.CaptureStack(),
		Timestamp:  time.Now(),
	}
	if re, ok := r.(error); ok {
		ce.Err = re
	}
	return ce
}
