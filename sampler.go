package cgpu

import (
	"fmt"

	"github.com/pablode/cgpu/core"
	"github.com/pablode/cgpu/hal"
)

// CreateSampler creates an immutable sampler state object.
func (ctx *Context) CreateSampler(desc hal.SamplerDescriptor) (core.SamplerID, error) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	s, err := ctx.dev.CreateSampler(desc)
	if err != nil {
		return core.SamplerID{}, fmt.Errorf("cgpu: create sampler: %w", err)
	}
	return ctx.samplers.Register(s), nil
}

// DestroySampler releases a sampler previously created with
// CreateSampler.
func (ctx *Context) DestroySampler(id core.SamplerID) error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	s, err := ctx.samplers.Unregister(id)
	if err != nil {
		return fmt.Errorf("cgpu: destroy sampler: %w", err)
	}
	ctx.dev.DestroySampler(s)
	return nil
}

func (ctx *Context) resolveSampler(id core.SamplerID) (hal.Sampler, error) {
	return ctx.samplers.Get(id)
}
