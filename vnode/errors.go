package vnode

import "errors"

// Resolver-level errors. The coordinator propagates these to the caller
// unchanged, so every Resolver implementation should return errors that
// satisfy errors.Is against this set.
var (
	// ErrNotExist is returned when a path component does not exist and
	// creation was not requested.
	ErrNotExist = errors.New("vnode: file does not exist")

	// ErrExist is returned when exclusive creation hits an existing entry.
	ErrExist = errors.New("vnode: file already exists")

	// ErrNotDir is returned when a component used as a directory is not
	// a directory.
	ErrNotDir = errors.New("vnode: not a directory")

	// ErrNameTooLong is returned when a path or component exceeds the
	// resolver's length limits.
	ErrNameTooLong = errors.New("vnode: name too long")

	// ErrNoDevice is returned when a device special file has no
	// corresponding device.
	ErrNoDevice = errors.New("vnode: no such device")
)
