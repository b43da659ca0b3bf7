package cgpu

import (
	"fmt"

	"github.com/pablode/cgpu/core"
	"github.com/pablode/cgpu/hal"
)

// CreateSemaphore creates a timeline semaphore starting at initialValue.
func (ctx *Context) CreateSemaphore(initialValue uint64) (core.SemaphoreID, error) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	sem, err := ctx.syncM.CreateSemaphore(initialValue)
	if err != nil {
		return core.SemaphoreID{}, fmt.Errorf("cgpu: create semaphore: %w", err)
	}
	return ctx.sems.Register(sem), nil
}

// DestroySemaphore releases a semaphore previously created with
// CreateSemaphore.
func (ctx *Context) DestroySemaphore(id core.SemaphoreID) error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	sem, err := ctx.sems.Unregister(id)
	if err != nil {
		return fmt.Errorf("cgpu: destroy semaphore: %w", err)
	}
	ctx.syncM.DestroySemaphore(sem)
	return nil
}

// SemaphoreWait pairs a semaphore handle with the value to wait for or
// signal, mirroring hal.SemaphoreWait over cgpu's own handles.
type SemaphoreWait struct {
	Semaphore core.SemaphoreID
	Value     uint64
}

func (ctx *Context) resolveWaits(waits []SemaphoreWait) ([]hal.SemaphoreWait, error) {
	out := make([]hal.SemaphoreWait, len(waits))
	for i, w := range waits {
		sem, err := ctx.sems.Get(w.Semaphore)
		if err != nil {
			return nil, fmt.Errorf("cgpu: resolve semaphore: %w", err)
		}
		out[i] = hal.SemaphoreWait{Semaphore: sem, Value: w.Value}
	}
	return out, nil
}

// Wait performs a conjunctive (wait-all) wait over waits, returning
// hal.ErrTimeout if timeoutNs elapses first.
func (ctx *Context) Wait(waits []SemaphoreWait, timeoutNs uint64) error {
	ctx.mu.Lock()
	halWaits, err := ctx.resolveWaits(waits)
	ctx.mu.Unlock()
	if err != nil {
		return err
	}
	return ctx.syncM.Wait(halWaits, timeoutNs)
}

// Submit submits a command buffer with its signal and wait semaphore
// lists. A failed submit is fatal, per spec.md §4.9; this method does
// not return an error for that case.
func (ctx *Context) Submit(id core.CommandBufferID, signals, waits []SemaphoreWait) error {
	ctx.mu.Lock()
	cmd, err := ctx.cmdBufs.Get(id)
	if err != nil {
		ctx.mu.Unlock()
		return fmt.Errorf("cgpu: submit: %w", err)
	}
	halSignals, err := ctx.resolveWaits(signals)
	if err != nil {
		ctx.mu.Unlock()
		return err
	}
	halWaits, err := ctx.resolveWaits(waits)
	ctx.mu.Unlock()
	if err != nil {
		return err
	}

	ctx.syncM.Submit(cmd, halSignals, halWaits)
	return nil
}
