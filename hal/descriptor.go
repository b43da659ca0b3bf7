package hal

// ImageLayout mirrors the small subset of VkImageLayout cgpu tracks.
type ImageLayout int

const (
	ImageLayoutUndefined ImageLayout = iota
	ImageLayoutGeneral
	ImageLayoutReadOnlyOptimal
	ImageLayoutTransferSrc
	ImageLayoutTransferDst
)

// AccessFlags mirrors the VkAccessFlags2 bits cgpu's barrier logic needs.
type AccessFlags uint32

const AccessNone AccessFlags = 0

const (
	AccessShaderRead AccessFlags = 1 << iota
	AccessShaderWrite
	AccessTransferRead
	AccessTransferWrite
	AccessMemoryRead
	AccessMemoryWrite
)

// PipelineStageFlags mirrors the VkPipelineStageFlags2 bits cgpu derives
// from a shader's stage flags.
type PipelineStageFlags uint32

const PipelineStageNone PipelineStageFlags = 0

const (
	PipelineStageComputeShader PipelineStageFlags = 1 << iota
	PipelineStageRayTracingShader
	PipelineStageTransfer
	PipelineStageAllCommands
)

// ShaderStage identifies a single shader stage.
type ShaderStage int

const (
	ShaderStageCompute ShaderStage = iota
	ShaderStageRayGen
	ShaderStageMiss
	ShaderStageClosestHit
	ShaderStageAnyHit
	ShaderStageIntersection
)

// PipelineBindPoint distinguishes compute from ray-tracing pipelines.
type PipelineBindPoint int

const (
	PipelineBindPointCompute PipelineBindPoint = iota
	PipelineBindPointRayTracing
)

// MemoryPriority mirrors spec.md §4.4's fixed priority values: AS-build,
// AS-storage, SBT and device-address buffers get 1.0; everything else
// gets 0.5.
type MemoryPriority float32

const (
	MemoryPriorityHigh MemoryPriority = 1.0
	MemoryPriorityNormal MemoryPriority = 0.5
)

// BufferUsage is a bitmask of how a buffer will be used, mirroring the
// Vulkan usage flags cgpu's Resource Manager consumes.
type BufferUsage uint32

const (
	BufferUsageTransferSrc BufferUsage = 1 << iota
	BufferUsageTransferDst
	BufferUsageStorageBuffer
	BufferUsageUniformBuffer
	BufferUsageIndexBuffer
	BufferUsageVertexBuffer
	BufferUsageIndirectBuffer
	BufferUsageShaderDeviceAddress
	BufferUsageAccelerationStructureBuildInput
	BufferUsageAccelerationStructureStorage
	BufferUsageShaderBindingTable
)

// BufferDescriptor is the fully resolved set of parameters the Resource
// Manager hands to a backend after running spec.md §4.4's buffer-creation
// algorithm (size already 32-B aligned, memory properties already
// widened for shared-memory devices, priority already assigned).
type BufferDescriptor struct {
	Label string
	Size  uint64
	Usage BufferUsage

	HostVisible  bool
	HostCoherent bool
	Priority     MemoryPriority

	// Alignment is the final alignment computed by the Resource Manager
	// (max(requested, 32B), widened further if host-visible).
	Alignment uint64
}

// ImageDescriptor mirrors spec.md §4.4's fixed image-creation rules:
// callers only choose format, extent and usage; mip count, layer count,
// sample count and tiling are derived by the Resource Manager.
type ImageDescriptor struct {
	Label  string
	Format ImageFormat
	Width  uint32
	Height uint32
	Depth  uint32
	Usage  ImageUsage

	// LinearTiling is set by the Resource Manager for 2D images with
	// transfer src/dst usage; every other image uses optimal tiling.
	LinearTiling bool
}

// ImageUsage is a bitmask of how an image will be used.
type ImageUsage uint32

const (
	ImageUsageTransferSrc ImageUsage = 1 << iota
	ImageUsageTransferDst
	ImageUsageSampled
	ImageUsageStorage
)

// ImageFormat is the closed set of formats cgpu exposes across both
// backends (the Metal backend aborts via internal/fatal on anything
// outside this set, per spec.md §6).
type ImageFormat int

const (
	ImageFormatRGBA8Unorm ImageFormat = iota
	ImageFormatRGBA16Sfloat
	ImageFormatR32Sfloat
)

// SamplerDescriptor describes an immutable sampler.
type SamplerDescriptor struct {
	Label        string
	MinFilter    Filter
	MagFilter    Filter
	MipmapFilter Filter
	AddressMode  AddressMode
}

// Filter is a texture filtering mode.
type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
)

// AddressMode is a texture addressing mode.
type AddressMode int

const (
	AddressModeRepeat AddressMode = iota
	AddressModeClampToEdge
	AddressModeMirroredRepeat
)

// ShaderDescriptor carries the raw SPIR-V (or, on Metal, the source used
// to cross-compile to MSL) plus the reflected metadata pipeline compiler
// needs.
type ShaderDescriptor struct {
	Label  string
	Code   []byte
	Stage  ShaderStage
	Entry  string
}

// Binding is one reflected descriptor binding, mirroring reflect.Binding.
type Binding struct {
	Binding        uint32
	Count          uint32
	DescriptorType DescriptorType
	ReadAccess     bool
	WriteAccess    bool
}

// DescriptorType mirrors reflect.DescriptorType's values 1:1 so pipeline
// compilation can pass reflect output straight through.
type DescriptorType int

const (
	DescriptorTypeSampler DescriptorType = iota
	DescriptorTypeSampledImage
	DescriptorTypeStorageImage
	DescriptorTypeUniformBuffer
	DescriptorTypeUniformBufferDynamic
	DescriptorTypeStorageBuffer
	DescriptorTypeAccelerationStructure
)

// DescriptorSetLayout is one reflected set's worth of bindings, with
// uniform-buffer bindings already remapped to UniformBufferDynamic per
// spec.md §4.6.
type DescriptorSetLayout struct {
	Set      uint32
	Bindings []Binding
}

// BindSetPool is the per-pipeline descriptor pool (or, on Metal, the
// argument-buffer allocator) a BindSet is allocated from.
type BindSetPool interface {
	Resource
}

// BufferBinding records one buffer write into a BindSet.
type BufferBinding struct {
	Binding uint32
	Index   uint32
	Buffer  Buffer
	Offset  uint64
	// Range is the effective bound range. SizeWholeBuffer is resolved by
	// the bind package to buffer.Size() - offset before reaching hal.
	Range uint64
}

// ImageBinding records one image write into a BindSet.
type ImageBinding struct {
	Binding uint32
	Index   uint32
	Image   Image
}

// SamplerBinding records one sampler write into a BindSet.
type SamplerBinding struct {
	Binding uint32
	Index   uint32
	Sampler Sampler
}

// TlasBinding records one acceleration-structure write into a BindSet.
type TlasBinding struct {
	Binding uint32
	Index   uint32
	Tlas    Tlas
}

// BindSetBindings is the full update payload for one BindSet.Update call,
// per spec.md §4.7.
type BindSetBindings struct {
	BufferBindings  []BufferBinding
	ImageBindings   []ImageBinding
	SamplerBindings []SamplerBinding
	TlasBindings    []TlasBinding
}

// SizeWholeBuffer is the sentinel Range value meaning "to the end of the
// bound buffer".
const SizeWholeBuffer = ^uint64(0)

// ComputePipelineDescriptor describes a compute pipeline compilation.
type ComputePipelineDescriptor struct {
	Label  string
	Shader Shader
}

// HitGroup is one ray-tracing hit group: a closest-hit and/or any-hit
// shader index, or HitGroupUnused for either slot.
type HitGroup struct {
	ClosestHit int
	AnyHit     int
}

// HitGroupUnused marks a hit-group slot as not present.
const HitGroupUnused = -1

// RayTracingPipelineDescriptor describes a ray-tracing pipeline
// compilation: one ray-gen shader, N miss shaders, M hit groups.
type RayTracingPipelineDescriptor struct {
	Label      string
	RayGen     Shader
	Miss       []Shader
	HitGroups  []HitGroup
	// Shaders is the flattened shader list hit-group indices reference
	// (closest-hit / any-hit shader modules).
	Shaders []Shader

	// UsePipelineLibraries requests the linked-library path when the
	// device reports pipeline-library support; ignored otherwise.
	UsePipelineLibraries bool
}

// ShaderBindingTableRegion is one (deviceAddress, stride, size) SBT
// region, per spec.md §4.6's layout table.
type ShaderBindingTableRegion struct {
	DeviceAddress uint64
	Stride        uint64
	Size          uint64
}

// ShaderBindingTable bundles the three regions recorded on a ray-tracing
// pipeline; the callable region is always the Vulkan zero value at trace
// time.
type ShaderBindingTable struct {
	RayGen ShaderBindingTableRegion
	Miss   ShaderBindingTableRegion
	Hit    ShaderBindingTableRegion
}

// BuildSizes is the result of querying an acceleration-structure build's
// required buffer and scratch sizes.
type BuildSizes struct {
	AccelerationStructureSize uint64
	BuildScratchSize          uint64
}

// BlasBuildInput is cgpu's fixed BLAS geometry shape: triangles, R32G32B32
// vertex positions at stride 12, uint32 indices.
type BlasBuildInput struct {
	VertexBuffer   Buffer
	IndexBuffer    Buffer
	MaxVertex      uint32
	TriangleCount  uint32
	IsOpaque       bool
}

// TlasInstance is one TLAS instance record before device-specific
// encoding. Transform is row-major 3x4.
type TlasInstance struct {
	Transform         [12]float32
	InstanceCustomIdx uint32 // must fit in 24 bits; fatal otherwise
	HitGroupIndex     uint32
	Blas              Blas
}

// TlasBuildInput is the full instance list for one TLAS build.
type TlasBuildInput struct {
	Instances []TlasInstance
}
