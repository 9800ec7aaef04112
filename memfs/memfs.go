// Package memfs is an in-memory filesystem implementing the vnode.Resolver
// contract, with node reference accounting and snapshot persistence.
//
// It exists so a VFS instance is usable and testable end to end without any
// on-disk filesystem: tests build a tree with Mkdir/WriteFile/Mknod, hand
// the FS to the coordinator as its resolver, and assert reference counts
// afterwards through LiveRefs.
package memfs

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/vfsgo/codec"
	"github.com/hupe1980/vfsgo/internal/pathutil"
	"github.com/hupe1980/vfsgo/oflag"
	"github.com/hupe1980/vfsgo/resource"
	"github.com/hupe1980/vfsgo/vnode"
)

// options holds FS configuration.
type options struct {
	codec       codec.Codec
	compression Compression
	res         *resource.Controller
}

// Option configures an FS.
type Option func(*options)

// WithCodec configures the codec used for snapshot payloads.
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression configures snapshot payload compression.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithResourceController configures the controller whose IO limit snapshot
// save and load go through. Pass nil to disable throttling.
func WithResourceController(res *resource.Controller) Option {
	return func(o *options) {
		o.res = res
	}
}

// FS is an in-memory filesystem tree.
//
// All tree mutations and walks run under one mutex; critical sections are a
// handful of map operations, so a single lock is enough. Node reference
// counts are atomic because Put runs outside the lock.
type FS struct {
	mu      sync.Mutex
	root    *node
	devices map[uint32]bool // registered (attached) device drivers
	opts    options

	liveRefs atomic.Int64
}

// New creates an empty filesystem with a root directory.
func New(optFns ...Option) *FS {
	opts := options{codec: codec.Default}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &FS{
		root:    newDir("", nil),
		devices: make(map[uint32]bool),
		opts:    opts,
	}
}

// Root returns a reference to the root directory.
func (fs *FS) Root() *vnode.Ref {
	return fs.ref(fs.root)
}

// LiveRefs returns the number of node references handed out and not yet
// released. Intended for leak assertions in tests.
func (fs *FS) LiveRefs() int64 {
	return fs.liveRefs.Load()
}

// RegisterDevice marks a device identifier as having an attached driver.
// Opening a device node whose identifier is not registered fails with
// ErrNoDevice.
func (fs *FS) RegisterDevice(devID uint32) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.devices[devID] = true
}

// ref hands out a counted reference to n.
func (fs *FS) ref(n *node) *vnode.Ref {
	n.refs.Add(1)
	fs.liveRefs.Add(1)
	return vnode.NewRef(n, func() {
		n.refs.Add(-1)
		fs.liveRefs.Add(-1)
	})
}

// Resolve implements vnode.Resolver.
//
// CREAT creates a missing regular file in an existing parent directory;
// combined with EXCL an existing target fails with ErrExist. TRUNC empties
// an existing regular file when the flags also request write access.
// Resolving a device node whose driver is not registered fails with
// ErrNoDevice.
func (fs *FS) Resolve(ctx context.Context, path string, flags oflag.Oflag, cwd *vnode.Ref) (*vnode.Ref, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	components, err := pathutil.Split(path)
	if err != nil {
		return nil, vnode.ErrNameTooLong
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	cur := fs.root
	if !pathutil.IsAbs(path) {
		if n, ok := cwd.Node().(*node); ok {
			cur = n
		}
	}

	for i, comp := range components {
		if cur.typ != vnode.TypeDirectory {
			return nil, fmt.Errorf("%w: %s", vnode.ErrNotDir, comp)
		}

		if comp == ".." {
			if cur.parent != nil {
				cur = cur.parent
			}
			continue
		}

		next, ok := cur.children[comp]
		last := i == len(components)-1

		if !ok {
			if last && flags.Has(oflag.CREAT) {
				next = newRegular(comp, cur)
				cur.children[comp] = next
			} else {
				return nil, fmt.Errorf("%w: %s", vnode.ErrNotExist, comp)
			}
		} else if last && flags.Has(oflag.CREAT|oflag.EXCL) {
			return nil, fmt.Errorf("%w: %s", vnode.ErrExist, comp)
		}

		cur = next
	}

	if cur.typ == vnode.TypeDevice && !fs.devices[cur.devID] {
		return nil, fmt.Errorf("%w: device %d", vnode.ErrNoDevice, cur.devID)
	}

	wantsWrite := flags&(oflag.WRONLY|oflag.RDWR) != 0
	if cur.typ == vnode.TypeRegular && flags.Has(oflag.TRUNC) && wantsWrite {
		cur.data = nil
	}

	return fs.ref(cur), nil
}

// lookupDir walks to the directory containing the final component of path
// and returns it together with that component. Caller holds fs.mu.
func (fs *FS) lookupDir(path string) (*node, string, error) {
	components, err := pathutil.Split(path)
	if err != nil {
		return nil, "", vnode.ErrNameTooLong
	}
	if len(components) == 0 {
		return nil, "", vnode.ErrExist // the root itself
	}

	cur := fs.root
	for _, comp := range components[:len(components)-1] {
		next, ok := cur.children[comp]
		if !ok {
			return nil, "", fmt.Errorf("%w: %s", vnode.ErrNotExist, comp)
		}
		if next.typ != vnode.TypeDirectory {
			return nil, "", fmt.Errorf("%w: %s", vnode.ErrNotDir, comp)
		}
		cur = next
	}
	return cur, components[len(components)-1], nil
}

// Mkdir creates a directory. The parent must exist.
func (fs *FS) Mkdir(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	dir, name, err := fs.lookupDir(path)
	if err != nil {
		return err
	}
	if _, ok := dir.children[name]; ok {
		return fmt.Errorf("%w: %s", vnode.ErrExist, name)
	}
	dir.children[name] = newDir(name, dir)
	return nil
}

// MkdirAll creates a directory and any missing parents.
func (fs *FS) MkdirAll(path string) error {
	components, err := pathutil.Split(path)
	if err != nil {
		return vnode.ErrNameTooLong
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	cur := fs.root
	for _, comp := range components {
		next, ok := cur.children[comp]
		if !ok {
			next = newDir(comp, cur)
			cur.children[comp] = next
		} else if next.typ != vnode.TypeDirectory {
			return fmt.Errorf("%w: %s", vnode.ErrNotDir, comp)
		}
		cur = next
	}
	return nil
}

// Mknod creates a device special file referring to devID. The device does
// not need to be registered yet; opening it before registration fails with
// ErrNoDevice.
func (fs *FS) Mknod(path string, devID uint32) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	dir, name, err := fs.lookupDir(path)
	if err != nil {
		return err
	}
	if _, ok := dir.children[name]; ok {
		return fmt.Errorf("%w: %s", vnode.ErrExist, name)
	}
	dir.children[name] = newDevice(name, dir, devID)
	return nil
}

// WriteFile creates (or replaces the contents of) a regular file.
func (fs *FS) WriteFile(path string, data []byte) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	dir, name, err := fs.lookupDir(path)
	if err != nil {
		return err
	}

	n, ok := dir.children[name]
	if !ok {
		n = newRegular(name, dir)
		dir.children[name] = n
	} else if n.typ != vnode.TypeRegular {
		return fmt.Errorf("%w: %s", vnode.ErrNotDir, name)
	}

	n.data = make([]byte, len(data))
	copy(n.data, data)
	return nil
}

// ReadFile returns a copy of a regular file's contents.
func (fs *FS) ReadFile(path string) ([]byte, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	dir, name, err := fs.lookupDir(path)
	if err != nil {
		return nil, err
	}
	n, ok := dir.children[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", vnode.ErrNotExist, name)
	}
	if n.typ != vnode.TypeRegular {
		return nil, fmt.Errorf("%w: %s", vnode.ErrNotDir, name)
	}

	data := make([]byte, len(n.data))
	copy(data, n.data)
	return data, nil
}
