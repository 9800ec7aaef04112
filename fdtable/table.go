// Package fdtable implements the per-process file descriptor table: a fixed
// capacity mapping from small integer handles to file objects.
//
// Allocation always returns the lowest free index. The free set is kept in a
// Roaring bitmap alongside the slot slice, so the lowest-free lookup is a
// single Minimum call instead of a linear scan.
//
// A Table is safe for concurrent use by the threads of one process; a single
// table-wide mutex is enough because critical sections are short and
// contention is expected to be low.
package fdtable

import (
	"errors"
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/vfsgo/file"
)

// ErrFull is returned by Allocate when every slot is in use.
var ErrFull = errors.New("fdtable: no free descriptor slot")

// ErrClosed is returned when the table has been drained and torn down.
var ErrClosed = errors.New("fdtable: table closed")

// Table is a fixed-capacity descriptor table.
type Table struct {
	mu     sync.Mutex
	slots  []*file.File
	free   *roaring.Bitmap // indexes that are neither bound nor reserved
	closed bool
}

// New creates a table with the given capacity. Capacity must be positive.
func New(capacity int) (*Table, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("fdtable: capacity must be positive, got %d", capacity)
	}

	free := roaring.New()
	free.AddRange(0, uint64(capacity))

	return &Table{
		slots: make([]*file.File, capacity),
		free:  free,
	}, nil
}

// Capacity returns the fixed slot count.
func (t *Table) Capacity() int {
	return len(t.slots)
}

// Allocate reserves the lowest free slot and returns its index. The slot
// stays empty until Bind; it will not be handed out again until Release.
func (t *Table) Allocate() (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0, ErrClosed
	}
	if t.free.IsEmpty() {
		return 0, ErrFull
	}

	fd := t.free.Minimum()
	t.free.Remove(fd)
	return int(fd), nil
}

// Bind stores f in slot fd. fd must be inside the table's range; binding an
// out-of-range descriptor is a programming error surfaced as one.
func (t *Table) Bind(fd int, f *file.File) error {
	if fd < 0 || fd >= len(t.slots) {
		return fmt.Errorf("fdtable: descriptor %d out of range [0,%d)", fd, len(t.slots))
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}

	t.slots[fd] = f
	t.free.Remove(uint32(fd))
	return nil
}

// Get returns the file bound to fd, or nil when the slot is empty or fd is
// out of range.
func (t *Table) Get(fd int) *file.File {
	if fd < 0 || fd >= len(t.slots) {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return t.slots[fd]
}

// GetRetained returns the file bound to fd with one extra reference taken, or
// nil when the slot is empty or fd is out of range. The retain happens under
// the table lock, so a concurrent Release of the same slot cannot drop the
// file's last reference between lookup and retain.
func (t *Table) GetRetained(fd int) *file.File {
	if fd < 0 || fd >= len(t.slots) {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	f := t.slots[fd]
	if f != nil {
		f.Retain()
	}
	return f
}

// Release clears slot fd and returns whatever was bound there, nil when the
// slot was already empty. Releasing an empty or out-of-range slot is a
// no-op, not an error; rollback paths may release a slot that was never
// bound.
func (t *Table) Release(fd int) *file.File {
	if fd < 0 || fd >= len(t.slots) {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	f := t.slots[fd]
	t.slots[fd] = nil
	t.free.Add(uint32(fd))
	return f
}

// FreeCount returns the number of slots available for Allocate.
func (t *Table) FreeCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return int(t.free.GetCardinality())
}

// OpenCount returns the number of slots with a bound file.
func (t *Table) OpenCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for _, f := range t.slots {
		if f != nil {
			n++
		}
	}
	return n
}

// Drain empties every slot, permanently closes the table and returns the
// files that were bound, in ascending descriptor order. Used for process
// teardown where each held file must be released exactly once by the caller.
// After Drain, Allocate and Bind fail with ErrClosed.
func (t *Table) Drain() []*file.File {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true

	var files []*file.File
	for fd, f := range t.slots {
		if f == nil {
			continue
		}
		files = append(files, f)
		t.slots[fd] = nil
		t.free.Add(uint32(fd))
	}
	return files
}
