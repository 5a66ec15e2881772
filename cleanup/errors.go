package cleanup

import "errors"

// Error kinds. Every failure returned by Cleaner wraps exactly one of these.
var (
	ErrNotFound           = errors.New("jail not found")
	ErrAttachFailed       = errors.New("failed to attach to jail")
	ErrControlReadFailed  = errors.New("failed to read kernel control value")
	ErrControlWriteFailed = errors.New("failed to write kernel control value")
	ErrUnmountFailed      = errors.New("unmount failed")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotAttached        = errors.New("not attached to a jail")
)
