package memfs

import (
	"sync/atomic"

	"github.com/hupe1980/vfsgo/vnode"
)

// node is an in-memory filesystem entry. It implements vnode.Node.
//
// Tree structure (parent, children) is guarded by the owning FS mutex; the
// reference count is atomic because releases happen outside the lock.
type node struct {
	typ    vnode.Type
	name   string
	parent *node

	children map[string]*node // directories only
	data     []byte           // regular files only
	devID    uint32           // device nodes only

	refs atomic.Int64
}

func (n *node) Type() vnode.Type {
	return n.typ
}

// Size returns the byte size of a regular file's contents.
func (n *node) Size() int64 {
	return int64(len(n.data))
}

// DeviceID returns the device identifier of a device node.
func (n *node) DeviceID() uint32 {
	return n.devID
}

func newDir(name string, parent *node) *node {
	return &node{
		typ:      vnode.TypeDirectory,
		name:     name,
		parent:   parent,
		children: make(map[string]*node),
	}
}

func newRegular(name string, parent *node) *node {
	return &node{
		typ:    vnode.TypeRegular,
		name:   name,
		parent: parent,
	}
}

func newDevice(name string, parent *node, devID uint32) *node {
	return &node{
		typ:    vnode.TypeDevice,
		name:   name,
		parent: parent,
		devID:  devID,
	}
}
