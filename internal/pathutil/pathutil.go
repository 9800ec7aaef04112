// Package pathutil provides path splitting and length validation for
// resolver implementations.
package pathutil

import (
	"errors"
	"strings"
)

const (
	// NameMax is the maximum length of a single path component.
	NameMax = 255
	// PathMax is the maximum length of a whole path.
	PathMax = 4096
)

// ErrNameTooLong is returned when a path or one of its components exceeds
// the configured limits.
var ErrNameTooLong = errors.New("pathutil: path component too long")

// IsAbs reports whether path is absolute.
func IsAbs(path string) bool {
	return strings.HasPrefix(path, "/")
}

// Split validates length limits and breaks path into its components.
// Empty components and "." are dropped; ".." is kept for the walker to
// interpret. The empty path splits into no components.
func Split(path string) ([]string, error) {
	if len(path) > PathMax {
		return nil, ErrNameTooLong
	}

	var components []string
	for part := range strings.SplitSeq(path, "/") {
		if part == "" || part == "." {
			continue
		}
		if len(part) > NameMax {
			return nil, ErrNameTooLong
		}
		components = append(components, part)
	}
	return components, nil
}

// Base returns the final component of path, or "" when path has none.
func Base(path string) string {
	components, err := Split(path)
	if err != nil || len(components) == 0 {
		return ""
	}
	return components[len(components)-1]
}
