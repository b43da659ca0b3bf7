package pipeline

import (
	"fmt"

	"github.com/pablode/cgpu/hal"
	"github.com/pablode/cgpu/reflect"
	"github.com/pablode/cgpu/resource"
)

// HitGroup mirrors the original's explicit any-hit/closest-hit pair
// shape: each hit group references its member shaders by index into the
// Shaders list passed to CompileRayTracing, or HitGroupUnused if a slot
// is not present. Every hit group uses the triangles-hit-group kind.
type HitGroup struct {
	ClosestHit int
	AnyHit     int
}

// HitGroupUnused marks a hit-group slot as not present.
const HitGroupUnused = hal.HitGroupUnused

// SBTHandleLayout carries the device-reported sizes ComputeSBTLayout
// needs; a real backend reads these from its ray-tracing pipeline
// properties query.
type SBTHandleLayout struct {
	HandleSize      uint32
	HandleAlignment uint32
	BaseAlignment   uint32
}

// Compiler compiles compute and ray-tracing pipelines against a
// hal.Device, allocating the shader binding table buffer for
// ray-tracing pipelines through a resource.Manager.
type Compiler struct {
	dev    hal.Device
	res    *resource.Manager
	handle SBTHandleLayout
}

// NewCompiler constructs a Compiler. handle is the device's shader
// group handle size/alignment/base-alignment triple, used for
// ray-tracing SBT layout.
func NewCompiler(dev hal.Device, res *resource.Manager, handle SBTHandleLayout) *Compiler {
	return &Compiler{dev: dev, res: res, handle: handle}
}

// ComputeDescriptor describes a compute pipeline compilation request.
type ComputeDescriptor struct {
	Label  string
	Shader hal.Shader

	// ReflectedSets is the compute shader's reflected descriptor sets
	// (reflection runs when the shader is created; the Compiler only
	// consumes its result). DeriveDescriptorSetLayouts checks the count
	// against maxDescriptorSets and aborts when it is exceeded.
	ReflectedSets []reflect.DescriptorSet

	// PushConstantSize is 0 if the shader declares no push-constant
	// block.
	PushConstantSize uint32
}

// CompileCompute derives the pipeline's descriptor-set layouts from
// reflection, entry point fixed to "main", no specialization constants
// exposed, and creates the compute pipeline through the bound
// hal.Device.
func (c *Compiler) CompileCompute(desc ComputeDescriptor) (hal.Pipeline, error) {
	layouts := DeriveDescriptorSetLayouts(desc.ReflectedSets)

	p, err := c.dev.CreateComputePipeline(hal.ComputePipelineDescriptor{
		Label:  desc.Label,
		Shader: desc.Shader,
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: create compute pipeline: %w", err)
	}
	if setter, ok := p.(layoutSetter); ok {
		setter.SetLayouts(layouts)
		setter.SetPushConstantSize(desc.PushConstantSize)
	}
	return p, nil
}

// RayTracingDescriptor describes a ray-tracing pipeline compilation
// request. RayGen provides the canonical descriptor layout; every other
// stage in the pipeline must reflect an identical layout, which neither
// the Compiler nor cgpu.Context checks.
type RayTracingDescriptor struct {
	Label     string
	RayGen    hal.Shader
	Miss      []hal.Shader
	HitGroups []HitGroup
	// Shaders is the flattened closest-hit/any-hit shader module list
	// HitGroups index into.
	Shaders []hal.Shader

	ReflectedSets    []reflect.DescriptorSet
	PushConstantSize uint32

	// UsePipelineLibraries requests the linked-library path when the
	// device reports pipeline-library support; the backend silently
	// falls back to the monolithic path otherwise.
	UsePipelineLibraries bool
}

// CompileRayTracing gathers 1 ray-gen + N miss + M hit groups (in that
// order), creates the pipeline through the bound hal.Device, then
// allocates the shader binding table buffer sized by ComputeSBTLayout and
// records its regions on the pipeline. No shader group handles are
// fetched from the pipeline or written into the buffer.
func (c *Compiler) CompileRayTracing(desc RayTracingDescriptor) (hal.Pipeline, error) {
	layouts := DeriveDescriptorSetLayouts(desc.ReflectedSets)

	halGroups := make([]hal.HitGroup, len(desc.HitGroups))
	for i, g := range desc.HitGroups {
		halGroups[i] = hal.HitGroup{ClosestHit: g.ClosestHit, AnyHit: g.AnyHit}
	}

	p, err := c.dev.CreateRayTracingPipeline(hal.RayTracingPipelineDescriptor{
		Label:                desc.Label,
		RayGen:               desc.RayGen,
		Miss:                 desc.Miss,
		HitGroups:            halGroups,
		Shaders:              desc.Shaders,
		UsePipelineLibraries: desc.UsePipelineLibraries,
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: create ray tracing pipeline: %w", err)
	}
	if setter, ok := p.(layoutSetter); ok {
		setter.SetLayouts(layouts)
		setter.SetPushConstantSize(desc.PushConstantSize)
	}

	layout := ComputeSBTLayout(c.handle.HandleSize, c.handle.HandleAlignment, c.handle.BaseAlignment,
		uint32(len(desc.Miss)), uint32(len(desc.HitGroups)))

	sbtBuffer, err := c.uploadSBT(layout)
	if err != nil {
		c.dev.DestroyPipeline(p)
		return nil, err
	}

	if setter, ok := p.(sbtSetter); ok {
		setter.SetShaderBindingTable(layout.Regions(sbtBuffer.DeviceAddress()))
	}

	return p, nil
}

// uploadSBT allocates the SBT buffer (transfer-dst + device-address +
// SBT usage, device-local, baseAlignment-aligned) sized to layout's
// total size. It only establishes the buffer and its alignment; nothing
// writes group handle bytes into it.
func (c *Compiler) uploadSBT(layout SBTLayout) (hal.Buffer, error) {
	return c.res.CreateBuffer(resource.BufferRequest{
		Label:     "shader-binding-table",
		Size:      layout.TotalSize,
		Usage:     hal.BufferUsageTransferDst | hal.BufferUsageShaderDeviceAddress | hal.BufferUsageShaderBindingTable,
		Alignment: uint64(c.handle.BaseAlignment),
	})
}

// layoutSetter is implemented by a backend's Pipeline type (and
// internal/haltest's fake) to let the Compiler populate reflection-derived
// fields the backend's own CreateComputePipeline/CreateRayTracingPipeline
// call left zero.
type layoutSetter interface {
	SetLayouts([]hal.DescriptorSetLayout)
	SetPushConstantSize(uint32)
}

type sbtSetter interface {
	SetShaderBindingTable(hal.ShaderBindingTable)
}
