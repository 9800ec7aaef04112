package vfsgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vfsgo/fdtable"
	"github.com/hupe1980/vfsgo/file"
	"github.com/hupe1980/vfsgo/oflag"
	"github.com/hupe1980/vfsgo/vnode"
)

var (
	// ErrInvalid is returned for a malformed flag combination.
	ErrInvalid = errors.New("invalid flags")

	// ErrTooManyFiles is returned when the process descriptor table is full.
	ErrTooManyFiles = errors.New("too many open files")

	// ErrNoMemory is returned when no file object can be allocated.
	ErrNoMemory = errors.New("out of file objects")

	// ErrIsDir is returned when a directory is opened for writing.
	ErrIsDir = errors.New("is a directory")

	// ErrBadDescriptor is returned for a descriptor that is not open.
	ErrBadDescriptor = errors.New("bad file descriptor")
)

// Resolver errors pass through Open unchanged; these aliases let callers
// match them without importing vnode.
var (
	// ErrNotExist is returned when a path component does not exist.
	ErrNotExist = vnode.ErrNotExist

	// ErrExist is returned when an exclusive create finds an existing target.
	ErrExist = vnode.ErrExist

	// ErrNotDir is returned when a non-final path component is not a directory.
	ErrNotDir = vnode.ErrNotDir

	// ErrNameTooLong is returned when a path or component exceeds the limit.
	ErrNameTooLong = vnode.ErrNameTooLong

	// ErrNoDevice is returned when a device node has no attached driver.
	ErrNoDevice = vnode.ErrNoDevice
)

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, oflag.ErrInvalid) {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if errors.Is(err, fdtable.ErrFull) {
		return fmt.Errorf("%w: %w", ErrTooManyFiles, err)
	}
	if errors.Is(err, fdtable.ErrClosed) {
		return fmt.Errorf("%w: %w", ErrBadDescriptor, err)
	}
	if errors.Is(err, file.ErrExhausted) {
		return fmt.Errorf("%w: %w", ErrNoMemory, err)
	}

	return err
}
