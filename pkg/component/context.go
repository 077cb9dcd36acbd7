package component

// StateUpdate computes the next state from the previous one. Updates queued
// for the same key are folded in enqueue order.
type StateUpdate func(prev any) any

// StateUpdater is implemented by the tree that owns the components.
type StateUpdater interface {
	UpdateStateSync(key string, fn StateUpdate) error
	UpdateStateAsync(key string, fn StateUpdate)
	UpdateStateLazy(key string, fn StateUpdate)
}

// Context is handed to Render. It carries the component's global key, the
// state snapshot for this pass and the tree's updater.
type Context struct {
	key      string
	state    any
	updater  StateUpdater
	logTag   string
	treeID   int64
	hasState bool
}

// NewContext creates a render context. updater may be nil for detached
// rendering such as AssignKeys.
func NewContext(key string, updater StateUpdater) *Context {
	return &Context{key: key, updater: updater}
}

// WithState returns a copy of c carrying state.
func (c *Context) WithState(state any) *Context {
	cp := *c
	cp.state = state
	cp.hasState = true
	return &cp
}

// WithLogTag returns a copy of c carrying the tree's log tag.
func (c *Context) WithLogTag(tag string, treeID int64) *Context {
	cp := *c
	cp.logTag = tag
	cp.treeID = treeID
	return &cp
}

// GlobalKey returns the key of the component being rendered.
func (c *Context) GlobalKey() string { return c.key }

// LogTag returns the tree's log tag, or "".
func (c *Context) LogTag() string { return c.logTag }

// TreeID identifies the tree performing the render.
func (c *Context) TreeID() int64 { return c.treeID }

// State returns the state snapshot for this render pass.
func (c *Context) State() any { return c.state }

// HasState reports whether the component is stateful.
func (c *Context) HasState() bool { return c.hasState }

// UpdateStateSync queues fn and lays out synchronously on the calling
// goroutine.
func (c *Context) UpdateStateSync(fn StateUpdate) error {
	if c.updater == nil {
		return nil
	}
	return c.updater.UpdateStateSync(c.key, fn)
}

// UpdateStateAsync queues fn and schedules a background layout.
func (c *Context) UpdateStateAsync(fn StateUpdate) {
	if c.updater != nil {
		c.updater.UpdateStateAsync(c.key, fn)
	}
}

// UpdateStateLazy queues fn without scheduling a layout. It is applied by
// the next pass that commits.
func (c *Context) UpdateStateLazy(fn StateUpdate) {
	if c.updater != nil {
		c.updater.UpdateStateLazy(c.key, fn)
	}
}
