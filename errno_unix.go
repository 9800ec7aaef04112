//go:build unix

package vfsgo

import (
	"errors"

	"golang.org/x/sys/unix"
)

// Errno maps a vfsgo error to the corresponding POSIX errno, for callers
// that bridge into syscall-shaped interfaces (FUSE servers, 9P, NFS).
// Unrecognized errors map to EIO; nil maps to zero.
func Errno(err error) unix.Errno {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrInvalid):
		return unix.EINVAL
	case errors.Is(err, ErrTooManyFiles):
		return unix.EMFILE
	case errors.Is(err, ErrNoMemory):
		return unix.ENOMEM
	case errors.Is(err, ErrIsDir):
		return unix.EISDIR
	case errors.Is(err, ErrBadDescriptor):
		return unix.EBADF
	case errors.Is(err, ErrNotExist):
		return unix.ENOENT
	case errors.Is(err, ErrExist):
		return unix.EEXIST
	case errors.Is(err, ErrNotDir):
		return unix.ENOTDIR
	case errors.Is(err, ErrNameTooLong):
		return unix.ENAMETOOLONG
	case errors.Is(err, ErrNoDevice):
		return unix.ENXIO
	default:
		return unix.EIO
	}
}
