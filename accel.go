package cgpu

import (
	"fmt"

	"github.com/pablode/cgpu/accel"
	"github.com/pablode/cgpu/core"
	"github.com/pablode/cgpu/hal"
)

// BlasRequest describes a static triangle mesh to build a bottom-level
// acceleration structure over.
type BlasRequest struct {
	VertexBuffer  core.BufferID
	IndexBuffer   core.BufferID
	MaxVertex     uint32
	TriangleCount uint32
	IsOpaque      bool
}

// BuildBlas runs spec.md §4.5's BLAS build algorithm through the
// Context's Acceleration Structure Builder.
func (ctx *Context) BuildBlas(req BlasRequest) (core.BlasID, error) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	vtx, err := ctx.buffers.Get(req.VertexBuffer)
	if err != nil {
		return core.BlasID{}, fmt.Errorf("cgpu: build blas: resolve vertex buffer: %w", err)
	}
	idx, err := ctx.buffers.Get(req.IndexBuffer)
	if err != nil {
		return core.BlasID{}, fmt.Errorf("cgpu: build blas: resolve index buffer: %w", err)
	}

	blas, err := ctx.accelB.BuildBlas(accel.BlasInput{
		VertexBuffer:  vtx,
		IndexBuffer:   idx,
		MaxVertex:     req.MaxVertex,
		TriangleCount: req.TriangleCount,
		IsOpaque:      req.IsOpaque,
	})
	if err != nil {
		return core.BlasID{}, fmt.Errorf("cgpu: build blas: %w", err)
	}
	return ctx.blases.Register(blas), nil
}

// DestroyBlas releases a BLAS previously built with BuildBlas.
func (ctx *Context) DestroyBlas(id core.BlasID) error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	blas, err := ctx.blases.Unregister(id)
	if err != nil {
		return fmt.Errorf("cgpu: destroy blas: %w", err)
	}
	ctx.dev.DestroyBlas(blas)
	return nil
}

// TlasInstance is one instance record referencing an already-built BLAS
// by handle.
type TlasInstance struct {
	Transform     [12]float32
	CustomIndex   uint32
	HitGroupIndex uint32
	Blas          core.BlasID
}

// BuildTlas runs spec.md §4.5's TLAS build algorithm. An empty instance
// list still produces a valid empty TLAS, per spec.md §8's boundary
// case.
func (ctx *Context) BuildTlas(instances []TlasInstance) (core.TlasID, error) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	in := make([]accel.Instance, len(instances))
	for i, inst := range instances {
		blas, err := ctx.blases.Get(inst.Blas)
		if err != nil {
			return core.TlasID{}, fmt.Errorf("cgpu: build tlas: resolve blas %d: %w", i, err)
		}
		in[i] = accel.Instance{
			Transform:     inst.Transform,
			CustomIndex:   inst.CustomIndex,
			HitGroupIndex: inst.HitGroupIndex,
			Blas:          blas,
		}
	}

	tlas, err := ctx.accelB.BuildTlas(accel.TlasInput{Instances: in})
	if err != nil {
		return core.TlasID{}, fmt.Errorf("cgpu: build tlas: %w", err)
	}
	return ctx.tlases.Register(tlas), nil
}

// DestroyTlas releases a TLAS previously built with BuildTlas.
func (ctx *Context) DestroyTlas(id core.TlasID) error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	tlas, err := ctx.tlases.Unregister(id)
	if err != nil {
		return fmt.Errorf("cgpu: destroy tlas: %w", err)
	}
	ctx.dev.DestroyTlas(tlas)
	return nil
}

func (ctx *Context) resolveBlas(id core.BlasID) (hal.Blas, error) {
	return ctx.blases.Get(id)
}

func (ctx *Context) resolveTlas(id core.TlasID) (hal.Tlas, error) {
	return ctx.tlases.Get(id)
}
