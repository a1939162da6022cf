package player

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceNotFound is returned by Open when a local resource is missing or unreadable.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrReadinessTimeout is returned by Open when the control channel never came up.
	ErrReadinessTimeout = errors.New("control channel not ready")

	// ErrNotReady is returned by controls issued outside an established session.
	ErrNotReady = errors.New("session not ready")

	// ErrProcessExited is reported when the player exits before control was established.
	ErrProcessExited = errors.New("player process exited")

	// ErrStillRunning is returned by Open while the previous player process has not exited.
	ErrStillRunning = errors.New("previous player still running")

	// ErrInvalidSettings wraps every Settings.Validate failure.
	ErrInvalidSettings = errors.New("invalid settings")
)

// ControlError is a failed round trip on the control channel.
type ControlError struct {
	Op  string
	Err error
}

func (e *ControlError) Error() string {
	return fmt.Sprintf("control %s: %v", e.Op, e.Err)
}

func (e *ControlError) Unwrap() error {
	return e.Err
}

func controlErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ControlError{Op: op, Err: err}
}
