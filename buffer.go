package cgpu

import (
	"fmt"

	"github.com/pablode/cgpu/core"
	"github.com/pablode/cgpu/hal"
	"github.com/pablode/cgpu/resource"
)

// CreateBuffer allocates a buffer through the Context's Resource
// Manager, applying spec.md §4.4's size/alignment/priority rules.
func (ctx *Context) CreateBuffer(req resource.BufferRequest) (core.BufferID, error) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	buf, err := ctx.res.CreateBuffer(req)
	if err != nil {
		return core.BufferID{}, fmt.Errorf("cgpu: create buffer: %w", err)
	}
	return ctx.buffers.Register(buf), nil
}

// DestroyBuffer releases a buffer previously created with CreateBuffer.
func (ctx *Context) DestroyBuffer(id core.BufferID) error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	buf, err := ctx.buffers.Unregister(id)
	if err != nil {
		return fmt.Errorf("cgpu: destroy buffer: %w", err)
	}
	ctx.res.DestroyBuffer(buf)
	return nil
}

// BufferSize returns the allocated size of a live buffer.
func (ctx *Context) BufferSize(id core.BufferID) (uint64, error) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	buf, err := ctx.buffers.Get(id)
	if err != nil {
		return 0, fmt.Errorf("cgpu: buffer size: %w", err)
	}
	return buf.Size(), nil
}

// MappedBuffer returns the host-visible mapped range for a buffer
// created as host-visible, or nil if the buffer isn't mapped.
func (ctx *Context) MappedBuffer(id core.BufferID) ([]byte, error) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	buf, err := ctx.buffers.Get(id)
	if err != nil {
		return nil, fmt.Errorf("cgpu: mapped buffer: %w", err)
	}
	return buf.MappedPointer(), nil
}

// FlushBuffer makes host writes to a non-coherent host-visible buffer's
// mapped range visible to the device.
func (ctx *Context) FlushBuffer(id core.BufferID, offset, size uint64) error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	buf, err := ctx.buffers.Get(id)
	if err != nil {
		return fmt.Errorf("cgpu: flush buffer: %w", err)
	}
	return ctx.res.FlushMappedMemory(buf, offset, size)
}

// resolveBuffer is a handle-to-hal.Buffer lookup; the command and accel
// facade files call ctx.buffers.Get directly rather than this helper.
func (ctx *Context) resolveBuffer(id core.BufferID) (hal.Buffer, error) {
	return ctx.buffers.Get(id)
}
