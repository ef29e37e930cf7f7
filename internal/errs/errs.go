// Package errs holds the failure taxonomy shared by the recipe engine.
// Every failure site returns exactly one of these so callers can branch on
// the kind of failure instead of message text.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is returned when a kind is not registered in the catalog.
var ErrUnknownKind = errors.New("unknown config kind")

// FormatError reports malformed or unsupported serialized input.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("format: %s: %v", e.Reason, e.Err)
	}
	return "format: " + e.Reason
}

func (e *FormatError) Unwrap() error { return e.Err }

// PathError reports structural access blocked by a non-dictionary value.
type PathError struct {
	Path   []string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("path %s: %s", strings.Join(e.Path, "."), e.Reason)
}

// SizeMismatchError reports that no encoding of exactly Target bytes was found.
type SizeMismatchError struct {
	Basename string
	Target   int
	Closest  int
}

func (e *SizeMismatchError) Error() string {
	name := e.Basename
	if name == "" {
		name = "recipe"
	}
	return fmt.Sprintf("size-match %s: cannot encode exactly %d bytes (closest %d)", name, e.Target, e.Closest)
}

// ReadError reports a failed read of a protected or staged file.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string { return fmt.Sprintf("read %s: %v", e.Path, e.Err) }

func (e *ReadError) Unwrap() error { return e.Err }

// DirectoryError reports a missing or unusable directory.
type DirectoryError struct {
	Path string
	Err  error
}

func (e *DirectoryError) Error() string { return fmt.Sprintf("directory %s: %v", e.Path, e.Err) }

func (e *DirectoryError) Unwrap() error { return e.Err }

// OverwriteError reports that the overwrite collaborator declined or failed a file.
type OverwriteError struct {
	Path string
	Err  error
}

func (e *OverwriteError) Error() string { return fmt.Sprintf("overwrite %s: %v", e.Path, e.Err) }

func (e *OverwriteError) Unwrap() error { return e.Err }

// Stage names the failing stage of err for user-visible output.
func Stage(err error) string {
	var (
		formatErr    *FormatError
		pathErr      *PathError
		sizeErr      *SizeMismatchError
		readErr      *ReadError
		dirErr       *DirectoryError
		overwriteErr *OverwriteError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &sizeErr):
		return "size-match"
	case errors.As(err, &overwriteErr):
		return "overwrite"
	case errors.As(err, &formatErr):
		return "format"
	case errors.As(err, &pathErr):
		return "path"
	case errors.As(err, &readErr):
		return "read"
	case errors.As(err, &dirErr):
		return "directory"
	case errors.Is(err, ErrUnknownKind):
		return "lookup"
	default:
		return "unknown"
	}
}
