package file

import (
	"errors"
	"fmt"

	"sync/atomic"

	"github.com/hupe1980/vfsgo/resource"
)

// ErrExhausted is returned by Acquire when no file object can be allocated.
var ErrExhausted = errors.New("file: pool exhausted")

// Pool allocates and accounts for file objects.
//
// Every object acquired from the pool must eventually be released exactly as
// many times as it was acquired or retained. The live count is the number of
// objects whose reference count has not yet dropped to zero, which makes it
// the leak detector for failed opens.
type Pool struct {
	res  *resource.Controller // optional budget, nil enforces nothing
	live atomic.Int64
}

// NewPool creates a pool. res may be nil for an unbounded pool.
func NewPool(res *resource.Controller) *Pool {
	return &Pool{res: res}
}

// Acquire creates a file object with reference count 1, no mode, zero
// offset and no node reference. Returns ErrExhausted when the resource
// budget denies the allocation.
func (p *Pool) Acquire() (*File, error) {
	if err := p.res.AcquireFile(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExhausted, err)
	}

	f := &File{}
	f.refs.Store(1)
	p.live.Add(1)
	return f, nil
}

// Release drops one reference. At zero the node reference is released (if
// the object was ever populated) and the object is returned to the budget.
// Safe on objects that never had mode or node populated, and safe on nil.
//
// The drop-to-zero check is a single atomic decrement, so two threads
// releasing concurrently cannot both run the free path.
func (p *Pool) Release(f *File) {
	if f == nil {
		return
	}

	if f.refs.Add(-1) != 0 {
		return
	}

	if f.node != nil {
		f.node.Put()
		f.node = nil
	}
	p.live.Add(-1)
	p.res.ReleaseFile()
}

// LiveCount returns the number of objects not yet fully released.
func (p *Pool) LiveCount() int64 {
	return p.live.Load()
}
