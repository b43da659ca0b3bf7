package device

import (
	"fmt"

	"github.com/pablode/cgpu/internal/envcfg"
)

// DeviceType mirrors VkPhysicalDeviceType's relevant cases.
type DeviceType int

const (
	DeviceTypeOther DeviceType = iota
	DeviceTypeIntegrated
	DeviceTypeDiscrete
	DeviceTypeVirtual
	DeviceTypeCPU
)

// RequiredExtensions is the fixed list of device extensions cgpu requires,
// per spec.md §6. A backend checks each against its enumerated device
// extension list and reports the missing ones as candidate errors.
var RequiredExtensions = []string{
	"VK_KHR_acceleration_structure",
	"VK_EXT_descriptor_indexing",
	"VK_KHR_buffer_device_address",
	"VK_KHR_deferred_host_operations",
	"VK_KHR_ray_tracing_pipeline",
	"VK_KHR_spirv_1_4",
	"VK_KHR_shader_float_controls",
	"VK_KHR_shader_float16_int8",
	"VK_KHR_synchronization2",
	"VK_KHR_timeline_semaphore",
	"VK_KHR_maintenance5",
	"VK_KHR_dynamic_rendering",
	"VK_KHR_depth_stencil_resolve",
	"VK_KHR_create_renderpass2",
}

// OptionalExtensions are enabled opportunistically when present; absence
// never produces a candidate error.
var OptionalExtensions = []string{
	"VK_KHR_driver_properties",
	"VK_KHR_maintenance4",
	"VK_EXT_memory_priority",
	"VK_EXT_pageable_device_local_memory",
	"VK_KHR_pipeline_library",
	"VK_NV_ray_tracing_invocation_reorder",
	"VK_NV_ray_tracing_validation",
	"VK_EXT_shader_clock",
	"VK_KHR_shader_non_semantic_info",
}

// Properties is the subset of a physical device's property chain cgpu
// inspects: core properties plus the acceleration-structure, ray-tracing
// pipeline and driver property-chain extensions.
type Properties struct {
	Name       string
	VendorID   uint32
	DeviceID   uint32
	DeviceType DeviceType
	APIVersion uint32 // packed as VK_MAKE_API_VERSION

	DriverName string
	DriverInfo string

	SubgroupSize uint32

	ShaderGroupHandleSize             uint32
	ShaderGroupHandleAlignment        uint32
	ShaderGroupBaseAlignment          uint32
	MaxShaderGroupStride              uint32
	MinAccelerationStructureScratchOffsetAlignment uint32
}

// Features is the subset of a physical device's feature chain cgpu
// requires or opportunistically enables, per spec.md §4.3 step 5.
type Features struct {
	Maintenance5              bool
	TimelineSemaphore         bool
	Synchronization2          bool
	AccelerationStructure     bool
	RayTracingPipeline        bool
	BufferDeviceAddress       bool

	ShaderSampledImageArrayNonUniformIndexing bool
	DescriptorBindingPartiallyBound           bool
	RuntimeDescriptorArray                    bool

	ShaderFloat16            bool
	StorageBuffer16BitAccess bool

	ShaderSampledImageArrayDynamicIndexing bool
	ShaderInt16                            bool
	ShaderInt64                            bool

	// Opportunistic.
	MemoryPriority              bool
	PageableDeviceLocalMemory   bool
	PipelineLibraries           bool
	RayTracingInvocationReorder bool
	RayTracingValidation        bool
	ShaderClock                 bool
	ShaderNonSemanticInfo       bool
}

// MemoryInfo summarizes the device's memory heaps relevant to selection
// and allocation.
type MemoryInfo struct {
	// LargestDeviceLocalHeapBytes is the size of the largest heap with the
	// DEVICE_LOCAL property.
	LargestDeviceLocalHeapBytes uint64

	// SharedMemory is true if the largest device-local heap is also
	// host-visible (UMA integrated GPUs, or discrete GPUs with
	// resizable-BAR exposing the whole VRAM heap to the host).
	SharedMemory bool
}

// QueueFamily describes one queue family's capability flags.
type QueueFamily struct {
	Index           uint32
	SupportsCompute bool
	SupportsTransfer bool
}

// FindComputeTransferFamily returns the first family supporting both
// compute and transfer, per spec.md §4.3 step 1.
func FindComputeTransferFamily(families []QueueFamily) (QueueFamily, bool) {
	for _, f := range families {
		if f.SupportsCompute && f.SupportsTransfer {
			return f, true
		}
	}
	return QueueFamily{}, false
}

// VendorName maps a PCI vendor ID to a human-readable name, per spec.md
// §4.3's logging requirement.
func VendorName(vendorID uint32) string {
	switch vendorID {
	case 0x1002:
		return "AMD"
	case 0x10DE:
		return "NVIDIA"
	case 0x8086:
		return "Intel"
	default:
		return "Mesa"
	}
}

// Candidate is the evaluated record for one enumerated physical device.
type Candidate struct {
	Index      int
	Properties Properties
	Features   Features
	Memory     MemoryInfo

	QueueFamily   QueueFamily
	HasQueueFamily bool

	MissingExtensions []string
	Errors            []string
	OptionalEnabled   []string

	Score int
}

// Suitable reports whether the candidate has no disqualifying errors.
func (c Candidate) Suitable() bool {
	return len(c.Errors) == 0
}

const minAPIVersion uint32 = (1 << 22) | (1 << 12) // VK_API_VERSION_1_1 packing: major=1, minor=1

// EvaluateCandidate scores one physical device against spec.md §4.3's
// requirements. extensions is the device's supported-extension set;
// debug enables the debug-only opportunistic features (RT-invocation
// reorder, RT-validation, shader-clock).
func EvaluateCandidate(
	index int,
	props Properties,
	feats Features,
	mem MemoryInfo,
	families []QueueFamily,
	extensions map[string]bool,
	debugUtilsAvailable bool,
	debug bool,
) Candidate {
	c := Candidate{Index: index, Properties: props, Features: feats, Memory: mem}

	if fam, ok := FindComputeTransferFamily(families); ok {
		c.QueueFamily = fam
		c.HasQueueFamily = true
	} else {
		c.Errors = append(c.Errors, "no queue family supports both compute and transfer")
	}

	for _, ext := range RequiredExtensions {
		if !extensions[ext] {
			c.MissingExtensions = append(c.MissingExtensions, ext)
			c.Errors = append(c.Errors, fmt.Sprintf("missing required extension %s", ext))
		}
	}

	if props.APIVersion < minAPIVersion {
		c.Errors = append(c.Errors, "device API version below 1.1")
	}

	type namedFeature struct {
		name string
		ok   bool
	}
	required := []namedFeature{
		{"maintenance5", feats.Maintenance5},
		{"timelineSemaphore", feats.TimelineSemaphore},
		{"synchronization2", feats.Synchronization2},
		{"accelerationStructure", feats.AccelerationStructure},
		{"rayTracingPipeline", feats.RayTracingPipeline},
		{"bufferDeviceAddress", feats.BufferDeviceAddress},
		{"shaderSampledImageArrayNonUniformIndexing", feats.ShaderSampledImageArrayNonUniformIndexing},
		{"descriptorBindingPartiallyBound", feats.DescriptorBindingPartiallyBound},
		{"runtimeDescriptorArray", feats.RuntimeDescriptorArray},
		{"shaderFloat16", feats.ShaderFloat16},
		{"storageBuffer16BitAccess", feats.StorageBuffer16BitAccess},
		{"shaderSampledImageArrayDynamicIndexing", feats.ShaderSampledImageArrayDynamicIndexing},
		{"shaderInt16", feats.ShaderInt16},
		{"shaderInt64", feats.ShaderInt64},
	}
	for _, f := range required {
		if !f.ok {
			c.Errors = append(c.Errors, fmt.Sprintf("missing required feature %s", f.name))
		}
	}

	// Opportunistic enablement — never adds errors.
	if extensions["VK_KHR_driver_properties"] {
		c.OptionalEnabled = append(c.OptionalEnabled, "driver-properties")
	}
	if extensions["VK_KHR_maintenance4"] {
		c.OptionalEnabled = append(c.OptionalEnabled, "maintenance4")
	}
	if feats.MemoryPriority && extensions["VK_EXT_memory_priority"] &&
		feats.PageableDeviceLocalMemory && extensions["VK_EXT_pageable_device_local_memory"] {
		c.OptionalEnabled = append(c.OptionalEnabled, "pageable-device-local-memory")
	}
	if feats.PipelineLibraries && extensions["VK_KHR_pipeline_library"] && props.VendorID == 0x10DE {
		c.OptionalEnabled = append(c.OptionalEnabled, "pipeline-libraries")
	}
	if debug && feats.RayTracingInvocationReorder && extensions["VK_NV_ray_tracing_invocation_reorder"] {
		c.OptionalEnabled = append(c.OptionalEnabled, "rt-invocation-reorder")
	}
	if debug && debugUtilsAvailable && feats.RayTracingValidation && extensions["VK_NV_ray_tracing_validation"] {
		c.OptionalEnabled = append(c.OptionalEnabled, "rt-validation")
	}
	if debug && feats.ShaderClock && extensions["VK_EXT_shader_clock"] {
		c.OptionalEnabled = append(c.OptionalEnabled, "shader-clock")
	}
	if feats.ShaderNonSemanticInfo && extensions["VK_KHR_shader_non_semantic_info"] {
		c.OptionalEnabled = append(c.OptionalEnabled, "shader-non-semantic-info")
	}

	if len(c.Errors) == 0 {
		c.Score = scoreCandidate(props, mem)
	}

	return c
}

func scoreCandidate(props Properties, mem MemoryInfo) int {
	score := 0
	switch props.DeviceType {
	case DeviceTypeDiscrete:
		score += 10000
	case DeviceTypeVirtual:
		score += 8000
	}
	score += int(mem.LargestDeviceLocalHeapBytes / (1 << 30))
	return score
}

// SelectionError reports why Select could not pick a device: every
// candidate was unsuitable, or the environment override pointed at one
// that is.
type SelectionError struct {
	Candidates []Candidate
	Reason     string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("device selection failed: %s", e.Reason)
}

// Select picks the best candidate by score, honoring
// GTL_DEVICE_INDEX_OVERRIDE when set (clamped into [0, len(candidates)-1]).
// Fails if the chosen candidate has any error (score 0 due to
// disqualification, not merely a low but valid score).
func Select(candidates []Candidate) (Candidate, error) {
	if len(candidates) == 0 {
		return Candidate{}, &SelectionError{Reason: "no physical devices enumerated"}
	}

	chosen := -1
	if idx, ok := envcfg.DeviceIndexOverride(); ok {
		if idx >= len(candidates) {
			idx = len(candidates) - 1
		}
		chosen = idx
	} else {
		bestScore := -1
		for i, c := range candidates {
			if !c.Suitable() {
				continue
			}
			if c.Score > bestScore {
				bestScore = c.Score
				chosen = i
			}
		}
	}

	if chosen < 0 {
		return Candidate{}, &SelectionError{Candidates: candidates, Reason: "no suitable device found"}
	}

	if !candidates[chosen].Suitable() {
		return Candidate{}, &SelectionError{
			Candidates: candidates,
			Reason:     fmt.Sprintf("selected device %d is unsuitable: %v", chosen, candidates[chosen].Errors),
		}
	}

	return candidates[chosen], nil
}
