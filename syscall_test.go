package vfsgo

import (
	"context"
	"sync"
	"testing"

	"github.com/hupe1980/vfsgo/oflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClose_UnboundDescriptor(t *testing.T) {
	ctx := context.Background()
	vfs, _ := newTestVFS(t)

	proc, err := vfs.NewProcess()
	require.NoError(t, err)
	defer proc.Exit()

	for _, fd := range []int{0, 7, -1, 10_000} {
		assert.ErrorIs(t, vfs.Close(ctx, proc, fd), ErrBadDescriptor)
	}
}

func TestClose_DoubleClose(t *testing.T) {
	ctx := context.Background()
	vfs, _ := newTestVFS(t)

	proc, err := vfs.NewProcess()
	require.NoError(t, err)
	defer proc.Exit()

	fd, err := vfs.Open(ctx, proc, "/etc/passwd", oflag.RDONLY)
	require.NoError(t, err)

	require.NoError(t, vfs.Close(ctx, proc, fd))
	assert.ErrorIs(t, vfs.Close(ctx, proc, fd), ErrBadDescriptor)
}

func TestDup_SharesFileObject(t *testing.T) {
	ctx := context.Background()
	vfs, fs := newTestVFS(t)

	proc, err := vfs.NewProcess()
	require.NoError(t, err)
	defer proc.Exit()

	ofd, err := vfs.Open(ctx, proc, "/etc/passwd", oflag.RDONLY)
	require.NoError(t, err)

	nfd, err := vfs.Dup(ctx, proc, ofd)
	require.NoError(t, err)
	assert.Equal(t, 1, nfd)

	f := proc.table.Get(ofd)
	assert.Same(t, f, proc.table.Get(nfd))
	assert.Equal(t, int32(2), f.RefCount())

	// One file object, one node reference, two descriptors.
	assert.Equal(t, int64(1), vfs.Pool().LiveCount())
	assert.Equal(t, int64(1), fs.LiveRefs())

	// Closing one descriptor keeps the object alive.
	require.NoError(t, vfs.Close(ctx, proc, ofd))
	assert.Equal(t, int64(1), vfs.Pool().LiveCount())

	require.NoError(t, vfs.Close(ctx, proc, nfd))
	assert.Equal(t, int64(0), vfs.Pool().LiveCount())
	assert.Equal(t, int64(0), fs.LiveRefs())
}

func TestDup_BadDescriptor(t *testing.T) {
	ctx := context.Background()
	vfs, _ := newTestVFS(t)

	proc, err := vfs.NewProcess()
	require.NoError(t, err)
	defer proc.Exit()

	_, err = vfs.Dup(ctx, proc, 4)
	assert.ErrorIs(t, err, ErrBadDescriptor)
}

func TestDup_TableFull(t *testing.T) {
	ctx := context.Background()
	vfs, _ := newTestVFS(t)

	proc, err := vfs.NewProcess(WithTableCapacity(1))
	require.NoError(t, err)
	defer proc.Exit()

	ofd, err := vfs.Open(ctx, proc, "/etc/passwd", oflag.RDONLY)
	require.NoError(t, err)

	_, err = vfs.Dup(ctx, proc, ofd)
	assert.ErrorIs(t, err, ErrTooManyFiles)

	// The failed dup dropped its retain.
	assert.Equal(t, int32(1), proc.table.Get(ofd).RefCount())
}

// A Dup racing a Close of the same descriptor must either duplicate a still
// live object or fail with ErrBadDescriptor; it must never resurrect a freed
// object and drive the accounting negative.
func TestDup_ConcurrentClose(t *testing.T) {
	ctx := context.Background()
	vfs, fs := newTestVFS(t)

	proc, err := vfs.NewProcess(WithTableCapacity(4))
	require.NoError(t, err)
	defer proc.Exit()

	for range 200 {
		ofd, err := vfs.Open(ctx, proc, "/etc/passwd", oflag.RDONLY)
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			if nfd, err := vfs.Dup(ctx, proc, ofd); err == nil {
				_ = vfs.Close(ctx, proc, nfd)
			}
		}()
		go func() {
			defer wg.Done()
			_ = vfs.Close(ctx, proc, ofd)
		}()
		wg.Wait()

		require.GreaterOrEqual(t, vfs.Pool().LiveCount(), int64(0))
	}

	assert.Equal(t, int64(0), vfs.Pool().LiveCount())
	assert.Equal(t, int64(0), fs.LiveRefs())
}

func TestDup2_ClosesTarget(t *testing.T) {
	ctx := context.Background()
	vfs, _ := newTestVFS(t)

	proc, err := vfs.NewProcess()
	require.NoError(t, err)
	defer proc.Exit()

	ofd, err := vfs.Open(ctx, proc, "/etc/passwd", oflag.RDONLY)
	require.NoError(t, err)
	victim, err := vfs.Open(ctx, proc, "/etc/passwd", oflag.RDONLY)
	require.NoError(t, err)

	fd, err := vfs.Dup2(ctx, proc, ofd, victim)
	require.NoError(t, err)
	assert.Equal(t, victim, fd)

	// The victim's file object was released; both slots now share one.
	assert.Same(t, proc.table.Get(ofd), proc.table.Get(victim))
	assert.Equal(t, int64(1), vfs.Pool().LiveCount())
}

func TestDup2_EmptyTarget(t *testing.T) {
	ctx := context.Background()
	vfs, _ := newTestVFS(t)

	proc, err := vfs.NewProcess()
	require.NoError(t, err)
	defer proc.Exit()

	ofd, err := vfs.Open(ctx, proc, "/etc/passwd", oflag.RDONLY)
	require.NoError(t, err)

	fd, err := vfs.Dup2(ctx, proc, ofd, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, fd)
	assert.Equal(t, 2, proc.OpenCount())
}

func TestDup2_SameDescriptor(t *testing.T) {
	ctx := context.Background()
	vfs, _ := newTestVFS(t)

	proc, err := vfs.NewProcess()
	require.NoError(t, err)
	defer proc.Exit()

	ofd, err := vfs.Open(ctx, proc, "/etc/passwd", oflag.RDONLY)
	require.NoError(t, err)

	fd, err := vfs.Dup2(ctx, proc, ofd, ofd)
	require.NoError(t, err)
	assert.Equal(t, ofd, fd)
	assert.Equal(t, int32(1), proc.table.Get(ofd).RefCount())
}

func TestDup2_OutOfRange(t *testing.T) {
	ctx := context.Background()
	vfs, _ := newTestVFS(t)

	proc, err := vfs.NewProcess(WithTableCapacity(4))
	require.NoError(t, err)
	defer proc.Exit()

	ofd, err := vfs.Open(ctx, proc, "/etc/passwd", oflag.RDONLY)
	require.NoError(t, err)

	for _, nfd := range []int{-1, 4, 99} {
		_, err := vfs.Dup2(ctx, proc, ofd, nfd)
		assert.ErrorIs(t, err, ErrBadDescriptor)
	}

	_, err = vfs.Dup2(ctx, proc, 3, 2)
	assert.ErrorIs(t, err, ErrBadDescriptor, "unbound ofd")
}
