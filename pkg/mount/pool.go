package mount

import (
	"github.com/go-drift/mountgraph/pkg/errors"
	"github.com/go-drift/mountgraph/pkg/host"
)

// DefaultPoolSize is the number of released contents kept per content type.
const DefaultPoolSize = 8

// Pool recycles released contents by type. It belongs to one MountState and
// is never shared between trees.
type Pool struct {
	size  int
	free  map[string][]host.Content
	owned map[host.Content]string
}

// NewPool creates a pool keeping up to size contents per type. A size of
// zero disables recycling; negative selects DefaultPoolSize.
func NewPool(size int) *Pool {
	if size < 0 {
		size = DefaultPoolSize
	}
	return &Pool{
		size:  size,
		free:  make(map[string][]host.Content),
		owned: make(map[host.Content]string),
	}
}

// Acquire returns a recycled content of type kind or one made by create.
func (p *Pool) Acquire(kind string, create func() host.Content) host.Content {
	if free := p.free[kind]; len(free) > 0 {
		c := free[len(free)-1]
		p.free[kind] = free[:len(free)-1]
		delete(p.owned, c)
		return c
	}
	return create()
}

// Release returns c to the pool. Releasing content that is already pooled
// is a programming error and panics.
func (p *Pool) Release(kind string, c host.Content) {
	if c == nil {
		return
	}
	if _, ok := p.owned[c]; ok {
		panic(errors.Concurrency("mount.Pool.Release", "%v released twice", c))
	}
	if len(p.free[kind]) >= p.size {
		return
	}
	p.free[kind] = append(p.free[kind], c)
	p.owned[c] = kind
}

// Len returns the number of pooled contents of type kind.
func (p *Pool) Len(kind string) int { return len(p.free[kind]) }

// Clear drops every pooled content.
func (p *Pool) Clear() {
	clear(p.free)
	clear(p.owned)
}
