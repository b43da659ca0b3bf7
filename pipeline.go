package cgpu

import (
	"fmt"

	"github.com/pablode/cgpu/core"
	"github.com/pablode/cgpu/hal"
	"github.com/pablode/cgpu/pipeline"
)

// ComputePipelineRequest describes a compute pipeline compilation
// request against shader handles already created with CreateShader.
type ComputePipelineRequest struct {
	Label  string
	Shader core.ShaderID
}

// CreateComputePipeline resolves Shader to its compiled module and
// reflection metadata, derives descriptor-set layouts, and compiles the
// pipeline through the Context's Pipeline Compiler.
func (ctx *Context) CreateComputePipeline(req ComputePipelineRequest) (core.PipelineID, error) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	rec, err := ctx.shaders.Get(req.Shader)
	if err != nil {
		return core.PipelineID{}, fmt.Errorf("cgpu: create compute pipeline: resolve shader: %w", err)
	}

	p, err := ctx.compiler.CompileCompute(pipeline.ComputeDescriptor{
		Label:            req.Label,
		Shader:           rec.shader,
		ReflectedSets:    rec.module.DescriptorSets,
		PushConstantSize: rec.module.PushConstantsSize,
	})
	if err != nil {
		return core.PipelineID{}, fmt.Errorf("cgpu: create compute pipeline: %w", err)
	}
	return ctx.pipes.Register(p), nil
}

// RayTracingPipelineRequest describes a ray-tracing pipeline
// compilation request against shader handles already created with
// CreateShader. RayGen's reflected descriptor layout and push-constant
// size are authoritative; every other stage must reflect identically.
type RayTracingPipelineRequest struct {
	Label                string
	RayGen               core.ShaderID
	Miss                 []core.ShaderID
	HitGroups            []pipeline.HitGroup
	Shaders              []core.ShaderID
	UsePipelineLibraries bool
}

// CreateRayTracingPipeline resolves every shader handle in req and
// compiles the ray-tracing pipeline plus its shader binding table
// through the Context's Pipeline Compiler.
func (ctx *Context) CreateRayTracingPipeline(req RayTracingPipelineRequest) (core.PipelineID, error) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	rayGen, err := ctx.shaders.Get(req.RayGen)
	if err != nil {
		return core.PipelineID{}, fmt.Errorf("cgpu: create ray tracing pipeline: resolve ray gen: %w", err)
	}

	miss := make([]hal.Shader, len(req.Miss))
	for i, id := range req.Miss {
		rec, err := ctx.shaders.Get(id)
		if err != nil {
			return core.PipelineID{}, fmt.Errorf("cgpu: create ray tracing pipeline: resolve miss %d: %w", i, err)
		}
		miss[i] = rec.shader
	}

	shaders := make([]hal.Shader, len(req.Shaders))
	for i, id := range req.Shaders {
		rec, err := ctx.shaders.Get(id)
		if err != nil {
			return core.PipelineID{}, fmt.Errorf("cgpu: create ray tracing pipeline: resolve shader %d: %w", i, err)
		}
		shaders[i] = rec.shader
	}

	p, err := ctx.compiler.CompileRayTracing(pipeline.RayTracingDescriptor{
		Label:                req.Label,
		RayGen:               rayGen.shader,
		Miss:                 miss,
		HitGroups:            req.HitGroups,
		Shaders:              shaders,
		ReflectedSets:        rayGen.module.DescriptorSets,
		PushConstantSize:     rayGen.module.PushConstantsSize,
		UsePipelineLibraries: req.UsePipelineLibraries,
	})
	if err != nil {
		return core.PipelineID{}, fmt.Errorf("cgpu: create ray tracing pipeline: %w", err)
	}
	return ctx.pipes.Register(p), nil
}

// DestroyPipeline releases a pipeline previously created with
// CreateComputePipeline or CreateRayTracingPipeline.
func (ctx *Context) DestroyPipeline(id core.PipelineID) error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	p, err := ctx.pipes.Unregister(id)
	if err != nil {
		return fmt.Errorf("cgpu: destroy pipeline: %w", err)
	}
	ctx.dev.DestroyPipeline(p)
	return nil
}

func (ctx *Context) resolvePipeline(id core.PipelineID) (hal.Pipeline, error) {
	return ctx.pipes.Get(id)
}
