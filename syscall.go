package vfsgo

import (
	"context"
	"fmt"
	"time"
)

// Close releases descriptor fd. The underlying file object is freed when
// this was its last descriptor. Closing an unbound or out-of-range
// descriptor fails with ErrBadDescriptor.
func (v *VFS) Close(ctx context.Context, proc *Process, fd int) (err error) {
	start := time.Now()
	defer func() {
		v.metrics.RecordClose(time.Since(start), err)
		v.logger.LogClose(ctx, proc.PID(), fd, err)
	}()

	f := proc.table.Release(fd)
	if f == nil {
		return fmt.Errorf("%w: fd %d", ErrBadDescriptor, fd)
	}

	v.pool.Release(f)
	return nil
}

// Dup binds the file object behind ofd to the lowest free descriptor and
// returns it. Both descriptors then share offset and mode. Fails with
// ErrBadDescriptor when ofd is not open and ErrTooManyFiles when the table
// is full; on failure the original descriptor is untouched.
func (v *VFS) Dup(ctx context.Context, proc *Process, ofd int) (nfd int, err error) {
	start := time.Now()
	defer func() {
		v.metrics.RecordDup(time.Since(start), err)
		v.logger.LogDup(ctx, proc.PID(), ofd, nfd, err)
	}()

	// Lookup and retain are one atomic step, so a concurrent Close of ofd
	// cannot free the object in between.
	f := proc.table.GetRetained(ofd)
	if f == nil {
		return 0, fmt.Errorf("%w: fd %d", ErrBadDescriptor, ofd)
	}

	nfd, aerr := proc.table.Allocate()
	if aerr != nil {
		v.pool.Release(f) // drop the retain
		return 0, translateError(aerr)
	}

	if berr := proc.table.Bind(nfd, f); berr != nil {
		proc.table.Release(nfd)
		v.pool.Release(f)
		return 0, berr
	}

	return nfd, nil
}

// Dup2 binds the file object behind ofd to the specific descriptor nfd,
// closing whatever nfd held before. If nfd equals ofd, Dup2 is a no-op
// returning nfd. Fails with ErrBadDescriptor when ofd is not open or nfd is
// out of the table's range.
func (v *VFS) Dup2(ctx context.Context, proc *Process, ofd, nfd int) (fd int, err error) {
	start := time.Now()
	defer func() {
		v.metrics.RecordDup(time.Since(start), err)
		v.logger.LogDup(ctx, proc.PID(), ofd, nfd, err)
	}()

	f := proc.table.GetRetained(ofd)
	if f == nil {
		return 0, fmt.Errorf("%w: fd %d", ErrBadDescriptor, ofd)
	}
	if nfd < 0 || nfd >= proc.table.Capacity() {
		v.pool.Release(f) // drop the retain
		return 0, fmt.Errorf("%w: fd %d", ErrBadDescriptor, nfd)
	}
	if nfd == ofd {
		v.pool.Release(f)
		return nfd, nil
	}

	if old := proc.table.Release(nfd); old != nil {
		v.pool.Release(old)
	}
	if berr := proc.table.Bind(nfd, f); berr != nil {
		v.pool.Release(f)
		return 0, berr
	}

	return nfd, nil
}
