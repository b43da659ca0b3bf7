package pipeline

import (
	"github.com/pablode/cgpu/hal"
	"github.com/pablode/cgpu/internal/fatal"
	"github.com/pablode/cgpu/reflect"
)

// maxDescriptorSets is the fixed upper bound on reflected descriptor
// sets per pipeline, per spec.md §4.7 and the over-limit fatal cases
// enumerated in internal/fatal.
const maxDescriptorSets = 4

// DeriveDescriptorSetLayouts turns a shader's reflected descriptor sets
// into hal.DescriptorSetLayout values, applying spec.md §4.6's fixed
// remap: every uniform-buffer binding becomes uniform-buffer-dynamic so
// its offset can be supplied per bindPipeline call rather than baked
// into the descriptor write. Sampler/sampled-image/storage-image
// bindings are left as combined-image-sampler-style bindings that a
// backend creates with the partially-bound flag, allowing unused array
// slots; that flag is a backend pipeline-layout creation detail, not
// part of the reflected shape itself.
//
// More than maxDescriptorSets reflected sets is an over-limit
// programming error and aborts the process via internal/fatal.
func DeriveDescriptorSetLayouts(sets []reflect.DescriptorSet) []hal.DescriptorSetLayout {
	if len(sets) > maxDescriptorSets {
		fatal.Abort("pipeline: shader declares %d descriptor sets, exceeding the %d-set limit", len(sets), maxDescriptorSets)
	}

	layouts := make([]hal.DescriptorSetLayout, len(sets))
	for i, set := range sets {
		bindings := make([]hal.Binding, len(set.Bindings))
		for j, b := range set.Bindings {
			bindings[j] = hal.Binding{
				Binding:        b.Binding,
				Count:          b.Count,
				DescriptorType: mapDescriptorType(b.DescriptorType),
				ReadAccess:     b.ReadAccess,
				WriteAccess:    b.WriteAccess,
			}
		}
		layouts[i] = hal.DescriptorSetLayout{Set: set.Set, Bindings: bindings}
	}
	return layouts
}

func mapDescriptorType(t reflect.DescriptorType) hal.DescriptorType {
	switch t {
	case reflect.DescriptorTypeSampler:
		return hal.DescriptorTypeSampler
	case reflect.DescriptorTypeSampledImage:
		return hal.DescriptorTypeSampledImage
	case reflect.DescriptorTypeStorageImage:
		return hal.DescriptorTypeStorageImage
	case reflect.DescriptorTypeUniformBuffer:
		return hal.DescriptorTypeUniformBufferDynamic
	case reflect.DescriptorTypeStorageBuffer:
		return hal.DescriptorTypeStorageBuffer
	case reflect.DescriptorTypeAccelerationStructure:
		return hal.DescriptorTypeAccelerationStructure
	default:
		fatal.Abort("pipeline: unrecognized reflected descriptor type %d", t)
		panic("unreachable")
	}
}
