package cgpu

import (
	"fmt"

	"github.com/pablode/cgpu/core"
	"github.com/pablode/cgpu/hal"
)

// CreateBindSet allocates a bind set for one of pipeline's reflected
// descriptor set layouts, from the pipeline's descriptor pool.
func (ctx *Context) CreateBindSet(pipeline core.PipelineID, setIndex uint32) (core.BindSetID, error) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	p, err := ctx.pipes.Get(pipeline)
	if err != nil {
		return core.BindSetID{}, fmt.Errorf("cgpu: create bind set: resolve pipeline: %w", err)
	}

	set, err := ctx.bindM.Create(p, setIndex)
	if err != nil {
		return core.BindSetID{}, fmt.Errorf("cgpu: create bind set: %w", err)
	}
	return ctx.bindSets.Register(set), nil
}

// BufferBinding records one buffer write into a BindSet, by handle.
type BufferBinding struct {
	Binding uint32
	Index   uint32
	Buffer  core.BufferID
	Offset  uint64
	Range   uint64
}

// ImageBinding records one image write into a BindSet, by handle.
type ImageBinding struct {
	Binding uint32
	Index   uint32
	Image   core.ImageID
}

// SamplerBinding records one sampler write into a BindSet, by handle.
type SamplerBinding struct {
	Binding uint32
	Index   uint32
	Sampler core.SamplerID
}

// TlasBinding records one acceleration-structure write into a BindSet,
// by handle.
type TlasBinding struct {
	Binding uint32
	Index   uint32
	Tlas    core.TlasID
}

// BindSetBindings is the full update payload for one UpdateBindSet
// call, expressed over cgpu's own handles rather than hal's.
type BindSetBindings struct {
	BufferBindings  []BufferBinding
	ImageBindings   []ImageBinding
	SamplerBindings []SamplerBinding
	TlasBindings    []TlasBinding
}

// UpdateBindSet writes bindings into set according to pipeline's layout
// for setIndex, per spec.md §4.7.
func (ctx *Context) UpdateBindSet(pipeline core.PipelineID, setIndex uint32, id core.BindSetID, bindings BindSetBindings) error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	p, err := ctx.pipes.Get(pipeline)
	if err != nil {
		return fmt.Errorf("cgpu: update bind set: resolve pipeline: %w", err)
	}
	set, err := ctx.bindSets.Get(id)
	if err != nil {
		return fmt.Errorf("cgpu: update bind set: resolve bind set: %w", err)
	}

	resolved := hal.BindSetBindings{
		BufferBindings:  make([]hal.BufferBinding, len(bindings.BufferBindings)),
		ImageBindings:   make([]hal.ImageBinding, len(bindings.ImageBindings)),
		SamplerBindings: make([]hal.SamplerBinding, len(bindings.SamplerBindings)),
		TlasBindings:    make([]hal.TlasBinding, len(bindings.TlasBindings)),
	}
	for i, bb := range bindings.BufferBindings {
		buf, err := ctx.buffers.Get(bb.Buffer)
		if err != nil {
			return fmt.Errorf("cgpu: update bind set: resolve buffer binding %d: %w", i, err)
		}
		resolved.BufferBindings[i] = hal.BufferBinding{Binding: bb.Binding, Index: bb.Index, Buffer: buf, Offset: bb.Offset, Range: bb.Range}
	}
	for i, ib := range bindings.ImageBindings {
		img, err := ctx.images.Get(ib.Image)
		if err != nil {
			return fmt.Errorf("cgpu: update bind set: resolve image binding %d: %w", i, err)
		}
		resolved.ImageBindings[i] = hal.ImageBinding{Binding: ib.Binding, Index: ib.Index, Image: img}
	}
	for i, sb := range bindings.SamplerBindings {
		s, err := ctx.samplers.Get(sb.Sampler)
		if err != nil {
			return fmt.Errorf("cgpu: update bind set: resolve sampler binding %d: %w", i, err)
		}
		resolved.SamplerBindings[i] = hal.SamplerBinding{Binding: sb.Binding, Index: sb.Index, Sampler: s}
	}
	for i, tb := range bindings.TlasBindings {
		t, err := ctx.tlases.Get(tb.Tlas)
		if err != nil {
			return fmt.Errorf("cgpu: update bind set: resolve tlas binding %d: %w", i, err)
		}
		resolved.TlasBindings[i] = hal.TlasBinding{Binding: tb.Binding, Index: tb.Index, Tlas: t}
	}

	ctx.bindM.Update(p, setIndex, set, resolved)
	return nil
}

// DestroyBindSet releases a bind set previously created with
// CreateBindSet.
func (ctx *Context) DestroyBindSet(id core.BindSetID) error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	set, err := ctx.bindSets.Unregister(id)
	if err != nil {
		return fmt.Errorf("cgpu: destroy bind set: %w", err)
	}
	ctx.bindM.Destroy(set)
	return nil
}
