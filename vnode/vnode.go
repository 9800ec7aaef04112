// Package vnode defines the contracts between the vfsgo coordinator and the
// path-resolution layer: the Node a resolver produces, the reference-counted
// Ref handle that owns it, and the Resolver interface itself.
//
// vfsgo never creates or destroys nodes. It only borrows references produced
// by a Resolver and releases them again, so the whole package is contracts
// plus a small ownership handle.
package vnode

import (
	"context"
	"sync/atomic"

	"github.com/hupe1980/vfsgo/oflag"
)

// Type is the type tag of a filesystem node.
type Type uint8

const (
	// TypeRegular is an ordinary data file.
	TypeRegular Type = iota
	// TypeDirectory is a directory.
	TypeDirectory
	// TypeDevice is a device special file.
	TypeDevice
)

// String returns a human-readable name for the type.
func (t Type) String() string {
	switch t {
	case TypeRegular:
		return "regular"
	case TypeDirectory:
		return "directory"
	case TypeDevice:
		return "device"
	default:
		return "unknown"
	}
}

// Node is the narrow view of a filesystem entry the coordinator needs.
// Concrete node state (data, children, device wiring) stays with the
// resolver that produced it.
type Node interface {
	// Type returns the node's type tag.
	Type() Type
}

// Ref is an owned reference to a Node.
//
// Put releases the reference exactly once; further calls are no-ops. This
// idempotency is load-bearing: rollback paths may release defensively
// without tracking whether an earlier step already did.
type Ref struct {
	node    Node
	release func()
	done    atomic.Bool
}

// NewRef wraps node in a reference whose release function is invoked on the
// first Put. release may be nil for references that need no accounting.
func NewRef(node Node, release func()) *Ref {
	return &Ref{node: node, release: release}
}

// Node returns the referenced node. Valid until Put.
func (r *Ref) Node() Node {
	if r == nil {
		return nil
	}
	return r.node
}

// Put releases the reference. Safe on nil and safe to call more than once.
func (r *Ref) Put() {
	if r == nil {
		return
	}
	if r.done.Swap(true) {
		return
	}
	if r.release != nil {
		r.release()
	}
}

// Released reports whether Put has already run. Intended for tests and leak
// assertions.
func (r *Ref) Released() bool {
	return r != nil && r.done.Load()
}

// Resolver resolves a path to a node reference.
//
// Implementations honor oflag.CREAT, oflag.TRUNC and oflag.EXCL themselves;
// the coordinator forwards the raw flags without interpreting them. cwd
// supplies the working-directory context for relative paths and is borrowed
// for the duration of the call, never consumed.
//
// On failure a Resolver may still return a partially resolved reference
// alongside the error; the caller must Put it.
type Resolver interface {
	Resolve(ctx context.Context, path string, flags oflag.Oflag, cwd *Ref) (*Ref, error)
}
