package cgpu

import (
	"fmt"

	"github.com/pablode/cgpu/command"
	"github.com/pablode/cgpu/core"
)

// CreateCommandBuffer allocates a command buffer against the Context's
// device.
func (ctx *Context) CreateCommandBuffer() (core.CommandBufferID, error) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	cmd, err := ctx.dev.CreateCommandBuffer()
	if err != nil {
		return core.CommandBufferID{}, fmt.Errorf("cgpu: create command buffer: %w", err)
	}
	return ctx.cmdBufs.Register(cmd), nil
}

// DestroyCommandBuffer releases a command buffer previously created
// with CreateCommandBuffer.
func (ctx *Context) DestroyCommandBuffer(id core.CommandBufferID) error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	cmd, err := ctx.cmdBufs.Unregister(id)
	if err != nil {
		return fmt.Errorf("cgpu: destroy command buffer: %w", err)
	}
	ctx.dev.DestroyCommandBuffer(cmd)
	return nil
}

// Recorder returns a command.Recorder bound to id, ready for Begin. The
// caller records a sequence of commands, then submits id via Submit.
func (ctx *Context) Recorder(id core.CommandBufferID) (*command.Recorder, error) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	cmd, err := ctx.cmdBufs.Get(id)
	if err != nil {
		return nil, fmt.Errorf("cgpu: recorder: %w", err)
	}
	return command.New(ctx.dev.Recorder(cmd)), nil
}
