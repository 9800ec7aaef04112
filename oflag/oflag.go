// Package oflag defines the open-style flag bitmask accepted by vfsgo and
// the normalized access intent derived from it.
//
// Flag values, including zero, should not be interpreted numerically; use the
// named constants. RDONLY is the zero value: a mask with neither WRONLY nor
// RDWR set requests read-only access.
package oflag

import "errors"

// Oflag is the raw open flag bitmask.
type Oflag uint32

const (
	// RDONLY requests read-only access. It is the implicit default when
	// neither WRONLY nor RDWR is set.
	RDONLY Oflag = 0x0
	// WRONLY requests write-only access. Mutually exclusive with RDWR.
	WRONLY Oflag = 0x1
	// RDWR requests read-write access. Mutually exclusive with WRONLY.
	RDWR Oflag = 0x2
	// CREAT asks the resolver to create the target if it does not exist.
	// Forwarded opaquely to the resolver; not validated here.
	CREAT Oflag = 0x100
	// TRUNC asks the resolver to truncate an existing regular file.
	// Forwarded opaquely to the resolver; not validated here.
	TRUNC Oflag = 0x200
	// APPEND positions every write at end of file. Orthogonal to the
	// access intent and combinable with any of them.
	APPEND Oflag = 0x400
	// EXCL, combined with CREAT, asks the resolver to fail if the target
	// already exists. Forwarded opaquely to the resolver.
	EXCL Oflag = 0x800
)

// ErrInvalid is returned by Validate for a malformed flag combination.
var ErrInvalid = errors.New("oflag: invalid flag combination")

// AccessIntent is the normalized read/write classification of an open call.
type AccessIntent uint8

const (
	// ReadOnly grants read access only.
	ReadOnly AccessIntent = iota
	// WriteOnly grants write access only.
	WriteOnly
	// ReadWrite grants both read and write access.
	ReadWrite
)

// String returns a human-readable name for the intent.
func (i AccessIntent) String() string {
	switch i {
	case ReadOnly:
		return "read-only"
	case WriteOnly:
		return "write-only"
	case ReadWrite:
		return "read-write"
	default:
		return "unknown"
	}
}

// Has reports whether every bit of mask is set in f.
func (f Oflag) Has(mask Oflag) bool {
	return f&mask == mask
}

// Validate checks the raw bitmask and derives the access intent and append
// flag from it.
//
// WRONLY and RDWR set together is invalid. The absence of both write bits
// always means a read-only request, never an error; this matches the
// common "default mode is read" convention. CREAT, TRUNC and EXCL are not
// inspected here, they belong to the resolver.
func Validate(flags Oflag) (AccessIntent, bool, error) {
	wr := flags&WRONLY != 0
	rdwr := flags&RDWR != 0
	if wr && rdwr {
		return 0, false, ErrInvalid
	}

	appendMode := flags&APPEND != 0

	switch {
	case wr:
		return WriteOnly, appendMode, nil
	case rdwr:
		return ReadWrite, appendMode, nil
	default:
		return ReadOnly, appendMode, nil
	}
}
