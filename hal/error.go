package hal

import "errors"

// Common hal errors representing unrecoverable GPU states. Programming
// errors (invalid handle, fatal driver failure per spec.md §7) are not
// modeled as errors returned here — the calling package routes those
// through internal/fatal instead.
var (
	// ErrBackendNotFound indicates the requested backend is not registered.
	ErrBackendNotFound = errors.New("hal: backend not found")

	// ErrDeviceOutOfMemory indicates the GPU has exhausted its memory.
	ErrDeviceOutOfMemory = errors.New("hal: device out of memory")

	// ErrDeviceLost indicates the GPU device has been lost (driver crash
	// or reset, hardware disconnection, driver timeout). The device
	// cannot be recovered and must be recreated.
	ErrDeviceLost = errors.New("hal: device lost")

	// ErrTimeout indicates a semaphore wait timed out before every wait
	// entry reached its target value. Device work keeps running; the
	// caller may re-wait.
	ErrTimeout = errors.New("hal: timeout")

	// ErrDriverBug indicates the driver returned an invalid or unexpected
	// result that violates the graphics API specification.
	ErrDriverBug = errors.New("hal: driver bug detected (API spec violation)")
)
