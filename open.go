package vfsgo

import (
	"context"
	"time"

	"github.com/hupe1980/vfsgo/file"
	"github.com/hupe1980/vfsgo/oflag"
	"github.com/hupe1980/vfsgo/vnode"
)

// Open resolves path for the given process and binds a fresh file object to
// the lowest free descriptor, returning the descriptor number.
//
// The operation is transactional: on any failure every acquisition made so
// far is undone in reverse order, so a failed Open consumes no descriptor,
// leaks no file object and holds no node reference.
//
// Flag errors surface as ErrInvalid, descriptor exhaustion as
// ErrTooManyFiles, file object exhaustion as ErrNoMemory, and opening a
// directory with any mode other than plain read as ErrIsDir. Resolver errors
// pass through unchanged. Opening through an exited process fails with
// ErrBadDescriptor.
func (v *VFS) Open(ctx context.Context, proc *Process, path string, flags oflag.Oflag) (fd int, err error) {
	start := time.Now()
	defer func() {
		v.metrics.RecordOpen(time.Since(start), err)
		v.logger.LogOpen(ctx, proc.PID(), path, fd, err)
	}()

	// Undo entries run in reverse on failure, unwinding exactly the
	// acquisitions made up to the failure point.
	var undo []func()
	defer func() {
		if err == nil {
			return
		}
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
	}()

	intent, appendMode, verr := oflag.Validate(flags)
	if verr != nil {
		return 0, translateError(verr)
	}

	fd, aerr := proc.table.Allocate()
	if aerr != nil {
		return 0, translateError(aerr)
	}
	undo = append(undo, func() { proc.table.Release(fd) })

	f, ferr := v.pool.Acquire()
	if ferr != nil {
		return 0, translateError(ferr)
	}
	undo = append(undo, func() { v.pool.Release(f) })

	mode := file.ModeFor(intent, appendMode)
	f.SetMode(mode)

	ref, rerr := v.resolver.Resolve(ctx, path, flags, proc.WorkingDirectory())
	if rerr != nil {
		ref.Put() // a partial reference may accompany the error
		return 0, rerr
	}

	// Directories never accept write or append modes.
	if ref.Node().Type() == vnode.TypeDirectory && mode != file.ModeRead {
		ref.Put()
		return 0, ErrIsDir
	}

	// Commit: the file object takes ownership of the node reference and
	// starts at offset zero. From here pool release puts the reference
	// exactly once, including on the bind-failure rollback below.
	f.Commit(ref)

	// Bind is the publication point and comes last: a concurrent Exit
	// either drains a fully committed binding or closes the table first,
	// making Bind fail and the rollback release everything.
	if berr := proc.table.Bind(fd, f); berr != nil {
		return 0, translateError(berr)
	}

	return fd, nil
}
