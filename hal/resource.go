package hal

// Resource is the base interface every GPU object backs onto.
type Resource interface {
	// Destroy releases the GPU resource. After this call the resource
	// must not be used. Calling Destroy more than once is undefined
	// behavior, same as the teacher's convention.
	Destroy()
}

// Buffer is a contiguous GPU-visible memory region.
type Buffer interface {
	Resource

	// Size returns the buffer's allocated size in bytes (post alignment,
	// per resource.Manager's buffer-creation algorithm).
	Size() uint64

	// DeviceAddress returns the cached GPU address, or 0 if the buffer
	// was not created with device-address usage.
	DeviceAddress() uint64

	// MappedPointer returns the cached host pointer for a persistently
	// mapped (host-visible) buffer, or nil if the buffer is not
	// host-visible.
	MappedPointer() []byte

	// HostCoherent reports whether writes through MappedPointer are
	// automatically visible to the device without an explicit flush.
	HostCoherent() bool
}

// Image is a GPU texture. cgpu only ever creates single-mip,
// single-layer, single-sample 2D or 3D images.
type Image interface {
	Resource

	// Layout returns the image's currently tracked layout.
	Layout() ImageLayout

	// AccessMask returns the image's currently tracked access mask.
	AccessMask() AccessFlags
}

// Sampler is an immutable sampler state object.
type Sampler interface {
	Resource
}

// Shader is a compiled shader module (SPIR-V on desktop, an MSL library
// on Metal) together with its reflection metadata.
type Shader interface {
	Resource

	// Stage returns the shader's pipeline stage.
	Stage() ShaderStage
}

// Pipeline is a compiled compute or ray-tracing pipeline, its descriptor
// pool, and (for ray tracing) its shader binding table regions.
type Pipeline interface {
	Resource

	// BindPoint reports whether this is a compute or ray-tracing pipeline.
	BindPoint() PipelineBindPoint

	// DescriptorSetLayouts returns the reflected layout for each bound set,
	// in ascending set-index order.
	DescriptorSetLayouts() []DescriptorSetLayout

	// PushConstantSize returns the size of the single push-constant range,
	// or 0 if the pipeline declares none.
	PushConstantSize() uint32

	// ShaderBindingTable returns the three SBT regions recorded on a
	// ray-tracing pipeline. Returns the zero value for compute pipelines.
	ShaderBindingTable() ShaderBindingTable

	// Pool returns the pipeline's descriptor pool, sized exactly to the
	// reflected descriptor counts across all of its sets. BindSets for
	// any of this pipeline's DescriptorSetLayouts are allocated from it.
	Pool() BindSetPool
}

// Blas is a bottom-level acceleration structure (a static triangle mesh).
type Blas interface {
	Resource

	// IsOpaque reports the opaque geometry flag the BLAS was built with.
	// accel.Builder.BuildTlas reads it for every instance, but does not
	// pass the result on to the backend.
	IsOpaque() bool

	// DeviceAddress returns the BLAS's device address, used to populate
	// TLAS instance records.
	DeviceAddress() uint64
}

// Tlas is a top-level acceleration structure (an instance list over BLASes).
type Tlas interface {
	Resource
}

// BindSet is one descriptor set's worth of bound resources (a Vulkan
// descriptor set, or a Metal argument buffer + residency set).
type BindSet interface {
	Resource
}

// CommandBuffer is a recorded, submittable sequence of commands.
type CommandBuffer interface {
	Resource
}

// Semaphore is a GPU timeline semaphore.
type Semaphore interface {
	Resource
}

// Device is the opened logical GPU device: the factory for every other
// resource kind, and the submission point for command buffers.
type Device interface {
	CreateBuffer(desc BufferDescriptor) (Buffer, error)
	DestroyBuffer(Buffer)
	// FlushMappedMemory and InvalidateMappedMemory implement the
	// non-coherent host-visible-buffer case; backends whose host-visible
	// memory is always coherent implement these as no-ops.
	FlushMappedMemory(b Buffer, offset, size uint64) error
	InvalidateMappedMemory(b Buffer, offset, size uint64) error

	CreateImage(desc ImageDescriptor) (Image, error)
	DestroyImage(Image)
	// MapImage and UnmapImage cover the one case spec.md permits an
	// application to map an image directly: a 2D image created with
	// linear tiling for transfer src/dst.
	MapImage(Image) ([]byte, error)
	UnmapImage(Image)

	CreateSampler(desc SamplerDescriptor) (Sampler, error)
	DestroySampler(Sampler)

	CreateShader(desc ShaderDescriptor) (Shader, error)
	DestroyShader(Shader)

	CreateComputePipeline(desc ComputePipelineDescriptor) (Pipeline, error)
	CreateRayTracingPipeline(desc RayTracingPipelineDescriptor) (Pipeline, error)
	DestroyPipeline(Pipeline)

	// QueryBlasBuildSizes returns the buffer/scratch sizes a BLAS build of
	// this geometry requires, without performing the build.
	QueryBlasBuildSizes(input BlasBuildInput) (BuildSizes, error)
	// QueryTlasBuildSizes is QueryBlasBuildSizes for a TLAS build.
	QueryTlasBuildSizes(input TlasBuildInput) (BuildSizes, error)
	// CreateBlas creates the acceleration-structure object bound to an
	// already-allocated backing buffer; it does not build it.
	CreateBlas(backing Buffer, size uint64, opaque bool) (Blas, error)
	// CreateTlas is CreateBlas for a TLAS.
	CreateTlas(backing Buffer, size uint64) (Tlas, error)
	DestroyBlas(Blas)
	DestroyTlas(Tlas)

	// AsScratchAlignment returns the minimum scratch-buffer offset
	// alignment acceleration-structure builds require.
	AsScratchAlignment() uint64

	CreateBindSet(layout DescriptorSetLayout, pool BindSetPool) (BindSet, error)
	DestroyBindSet(BindSet)
	UpdateBindSet(set BindSet, layout DescriptorSetLayout, bindings BindSetBindings)

	CreateCommandBuffer() (CommandBuffer, error)
	DestroyCommandBuffer(CommandBuffer)

	CreateSemaphore(initialValue uint64) (Semaphore, error)
	DestroySemaphore(Semaphore)
	// WaitSemaphores performs a conjunctive (wait-all) wait, returning
	// ErrTimeout if timeoutNs elapses first.
	WaitSemaphores(waits []SemaphoreWait, timeoutNs uint64) error
	// SubmitCommandBuffer submits one command buffer with the given
	// signal/wait semaphore lists. Submission failure is fatal per
	// spec.md §4.9 — callers route it through internal/fatal, not this
	// return value's caller-recoverable error path.
	SubmitCommandBuffer(cmd CommandBuffer, signals, waits []SemaphoreWait) error

	// Recorder returns a command Recorder bound to cmd, ready for Begin.
	Recorder(cmd CommandBuffer) Recorder

	Destroy()
}

// SemaphoreWait pairs a semaphore with the value to wait for or signal.
type SemaphoreWait struct {
	Semaphore Semaphore
	Value     uint64
}
