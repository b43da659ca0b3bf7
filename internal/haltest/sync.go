package haltest

import "sync/atomic"

// Semaphore is a fake hal.Semaphore: a plain atomic counter. Submission
// and waiting against it are both synchronous (see Device.WaitSemaphores
// and Device.SubmitCommandBuffer), so there is no blocking behavior to
// simulate beyond the already-satisfied/not-satisfied check.
type Semaphore struct {
	value     atomic.Uint64
	destroyed bool
}

func (s *Semaphore) Destroy()        {}
func (s *Semaphore) Value() uint64   { return s.value.Load() }
func (s *Semaphore) Destroyed() bool { return s.destroyed }

// Signal sets the semaphore's value directly, for tests that need to
// simulate a completed GPU timeline without going through
// Device.SubmitCommandBuffer.
func (s *Semaphore) Signal(v uint64) { s.value.Store(v) }
