package gpusync

import (
	"fmt"

	"github.com/pablode/cgpu/hal"
	"github.com/pablode/cgpu/internal/fatal"
)

// Manager creates timeline semaphores and submits command buffers
// against a hal.Device.
type Manager struct {
	dev hal.Device
}

// NewManager constructs a Manager bound to dev.
func NewManager(dev hal.Device) *Manager {
	return &Manager{dev: dev}
}

// CreateSemaphore creates a timeline semaphore starting at initialValue.
func (m *Manager) CreateSemaphore(initialValue uint64) (hal.Semaphore, error) {
	sem, err := m.dev.CreateSemaphore(initialValue)
	if err != nil {
		return nil, fmt.Errorf("gpusync: create semaphore: %w", err)
	}
	return sem, nil
}

// DestroySemaphore releases a semaphore created by CreateSemaphore.
func (m *Manager) DestroySemaphore(sem hal.Semaphore) {
	m.dev.DestroySemaphore(sem)
}

// Wait performs a conjunctive (wait-all) wait over waits, returning
// hal.ErrTimeout if timeoutNs elapses first.
func (m *Manager) Wait(waits []hal.SemaphoreWait, timeoutNs uint64) error {
	return m.dev.WaitSemaphores(waits, timeoutNs)
}

// Submit submits cmd with the given signal/wait semaphore lists. Per
// spec.md §4.9, submission failure is a fatal, unrecoverable condition
// rather than a caller-handled error.
func (m *Manager) Submit(cmd hal.CommandBuffer, signals, waits []hal.SemaphoreWait) {
	if err := m.dev.SubmitCommandBuffer(cmd, signals, waits); err != nil {
		fatal.Abort("gpusync: submit command buffer: %v", err)
	}
}
