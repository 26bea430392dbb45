package st7796

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrTransport wraps every SPI or GPIO failure. The controller state is
	// unknown afterwards; the device is Faulted until Init succeeds again.
	ErrTransport = errors.New("st7796: transport failure")
	// ErrOutOfBounds reports a window or rectangle outside the panel. The
	// device state is unaffected.
	ErrOutOfBounds = errors.New("st7796: out of bounds")
	// ErrInvariant reports a pixel stream that does not match the armed
	// window. It is a caller bug; the window is disarmed.
	ErrInvariant = errors.New("st7796: invariant violation")
	// ErrNotReady is returned by drawing operations before Init, after Halt,
	// while asleep, or after a transport failure.
	ErrNotReady = errors.New("st7796: device not ready")
)

// BoundsError describes a rejected window. It unwraps to ErrOutOfBounds.
type BoundsError struct {
	Op     string
	Rect   image.Rectangle
	Bounds image.Rectangle
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("st7796: %s: %v outside %v", e.Op, e.Rect, e.Bounds)
}

func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}
