package vfsgo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/vfsgo/fdtable"
	"github.com/hupe1980/vfsgo/oflag"
	"github.com/hupe1980/vfsgo/vnode"
)

// Process holds per-process open file state: a descriptor table and a
// working directory reference. Create it with VFS.NewProcess and release
// it with Exit.
type Process struct {
	vfs   *VFS
	pid   uint64
	table *fdtable.Table

	mu   sync.Mutex
	cwd  *vnode.Ref
	done bool
}

// PID returns the process identifier.
func (p *Process) PID() uint64 {
	return p.pid
}

// OpenCount returns the number of bound descriptors.
func (p *Process) OpenCount() int {
	return p.table.OpenCount()
}

// FreeCount returns the number of free descriptor slots.
func (p *Process) FreeCount() int {
	return p.table.FreeCount()
}

// WorkingDirectory returns the current working directory reference, or nil
// when none is set. The reference stays owned by the process; callers must
// not Put it.
func (p *Process) WorkingDirectory() *vnode.Ref {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cwd
}

// Chdir changes the working directory to the directory at path. The old
// working directory reference is released on success.
func (p *Process) Chdir(ctx context.Context, path string) error {
	p.mu.Lock()
	cwd := p.cwd
	p.mu.Unlock()

	ref, err := p.vfs.resolver.Resolve(ctx, path, oflag.RDONLY, cwd)
	if err != nil {
		ref.Put()
		return err
	}
	if ref.Node().Type() != vnode.TypeDirectory {
		ref.Put()
		return fmt.Errorf("%w: %s", ErrNotDir, path)
	}

	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		ref.Put()
		return fmt.Errorf("%w: process exited", ErrBadDescriptor)
	}
	old := p.cwd
	p.cwd = ref
	p.mu.Unlock()

	old.Put()
	return nil
}

// Exit tears down the process: every open descriptor is released as if
// closed, and the working directory reference is dropped. Exit is
// idempotent; operations on an exited process fail with ErrBadDescriptor.
func (p *Process) Exit() {
	start := time.Now()

	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		return
	}
	p.done = true
	cwd := p.cwd
	p.cwd = nil
	p.mu.Unlock()

	files := p.table.Drain()
	for _, f := range files {
		p.vfs.pool.Release(f)
	}
	cwd.Put()

	p.vfs.metrics.RecordExit(len(files), time.Since(start))
	p.vfs.logger.LogExit(context.Background(), p.pid, len(files))
}
