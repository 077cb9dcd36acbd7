package widgets

import (
	"github.com/go-drift/mountgraph/pkg/component"
	"github.com/go-drift/mountgraph/pkg/graphics"
)

// ErrorBoundary catches render errors from descendant components and
// displays a fallback instead of failing the whole layout pass.
//
// Example:
//
//	ErrorBoundary{
//	    ID: "feed",
//	    OnErrorFunc: func(err error) {
//	        log.Printf("feed failed: %v", err)
//	    },
//	    Fallback: func(err error) component.Component {
//	        return widgets.Text{Content: "Failed to load"}
//	    },
//	    Child: RiskyContent{},
//	}
type ErrorBoundary struct {
	ID string
	// Child is the subtree to guard.
	Child component.Component
	// Fallback creates the component shown when an error is caught. If nil,
	// an ErrorText with the error message is shown.
	Fallback func(err error) component.Component
	// OnErrorFunc is called when an error is caught.
	OnErrorFunc func(err error)
}

func (e ErrorBoundary) Key() string                                   { return e.ID }
func (e ErrorBoundary) Render(*component.Context) component.Component { return e.Child }

func (e ErrorBoundary) OnError(_ *component.Context, err error) component.Component {
	if e.OnErrorFunc != nil {
		e.OnErrorFunc(err)
	}
	if e.Fallback != nil {
		return e.Fallback(err)
	}
	return ErrorText{Err: err}
}

// ErrorText is the default fallback of an ErrorBoundary.
type ErrorText struct {
	Err error
}

func (ErrorText) Key() string { return "" }

func (e ErrorText) Render(*component.Context) component.Component {
	msg := "error"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return Text{
		Content:   msg,
		TextStyle: graphics.TextStyle{Color: graphics.RGB(0xc6, 0x28, 0x28)},
		Wrap:      true,
	}
}
