// Package file implements the file object: the reference-counted record of
// one open file instance (access mode, byte offset, node reference), and the
// pool that accounts for every live object.
//
// Distinct open calls get distinct file objects even for the same underlying
// path. A single object is shared between the descriptor-table slot holding
// it and any duplicate descriptors created later, which is what the
// reference count tracks.
package file

import (
	"sync/atomic"

	"github.com/hupe1980/vfsgo/oflag"
	"github.com/hupe1980/vfsgo/vnode"
)

// Mode is the access-mode bitmask stored on a file object.
type Mode uint8

const (
	// ModeRead grants read access.
	ModeRead Mode = 1 << iota
	// ModeWrite grants write access.
	ModeWrite
	// ModeAppend positions writes at end of file. Always combined with
	// ModeWrite or ModeRead, never alone.
	ModeAppend
)

// ModeFor derives the mode bitmask from a validated access intent and append
// flag. Given a validated intent this cannot fail; it is separate from flag
// validation so both stay independently testable.
func ModeFor(intent oflag.AccessIntent, appendMode bool) Mode {
	var m Mode
	switch intent {
	case oflag.WriteOnly:
		m = ModeWrite
	case oflag.ReadWrite:
		m = ModeRead | ModeWrite
	default:
		m = ModeRead
	}
	if appendMode {
		m |= ModeAppend
	}
	return m
}

// File is one open file instance.
//
// The node reference is owned exclusively by the file object and released
// when the reference count drops to zero. Mode is written once, before the
// object becomes visible to other threads; offset is atomic because
// duplicate descriptors share it.
type File struct {
	refs atomic.Int32
	mode Mode
	pos  atomic.Int64
	node *vnode.Ref
}

// Mode returns the access-mode bitmask.
func (f *File) Mode() Mode {
	return f.mode
}

// SetMode stores the access-mode bitmask. Called once during open, before
// the object is shared.
func (f *File) SetMode(m Mode) {
	f.mode = m
}

// Offset returns the current byte offset.
func (f *File) Offset() int64 {
	return f.pos.Load()
}

// Node returns the resolved node, or nil while the object is unpopulated.
func (f *File) Node() vnode.Node {
	if f.node == nil {
		return nil
	}
	return f.node.Node()
}

// Commit stores the resolved node reference and resets the offset. This is
// the final step of a successful open; from here the node reference is owned
// by the file object.
func (f *File) Commit(ref *vnode.Ref) {
	f.node = ref
	f.pos.Store(0)
}

// Retain adds a reference, for duplicate descriptors pointing at the same
// open instance.
func (f *File) Retain() {
	f.refs.Add(1)
}

// RefCount returns the current reference count. Intended for tests.
func (f *File) RefCount() int32 {
	return f.refs.Load()
}
