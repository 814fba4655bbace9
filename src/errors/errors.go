/**
 * Classified error kinds shared by every setwallpaper feature
 */

package wperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the CLI can decide between exiting and warning
type Kind string

const (
	KindUnknown            Kind = "unknown"
	KindDisplayUnavailable Kind = "display-unavailable"
	KindImageLoad          Kind = "image-load"
	KindNoWaylandTool      Kind = "no-wayland-tool"
	KindPersist            Kind = "persist"
	KindDesktopSyncTimeout Kind = "desktop-sync-timeout"
)

// Fatal reports whether an error of this kind should make the process exit non-zero
func (k Kind) Fatal() bool {
	switch k {
	case KindPersist, KindDesktopSyncTimeout:
		return false
	default:
		return true
	}
}

// Error wraps an underlying error with its kind, the failing operation and,
// when relevant, the file path involved.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Path)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error for op.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// WithPath creates a classified error that names the file it concerns.
func WithPath(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
