package bind

import (
	"fmt"

	"github.com/pablode/cgpu/hal"
	"github.com/pablode/cgpu/internal/fatal"
)

// Manager creates and updates BindSets against a hal.Device.
type Manager struct {
	dev hal.Device
}

// NewManager constructs a Manager bound to dev.
func NewManager(dev hal.Device) *Manager {
	return &Manager{dev: dev}
}

// Create allocates a bind set for one of pipeline's reflected descriptor
// set layouts, from the pipeline's descriptor pool.
func (m *Manager) Create(p hal.Pipeline, setIndex uint32) (hal.BindSet, error) {
	layout, ok := findLayout(p, setIndex)
	if !ok {
		fatal.Abort("bind: pipeline has no descriptor set at index %d", setIndex)
	}
	set, err := m.dev.CreateBindSet(layout, p.Pool())
	if err != nil {
		return nil, fmt.Errorf("bind: create bind set: %w", err)
	}
	return set, nil
}

// Destroy releases a bind set created by Create.
func (m *Manager) Destroy(set hal.BindSet) {
	m.dev.DestroyBindSet(set)
}

// Update writes bindings into set according to pipeline's layout for
// setIndex, per spec.md §4.7: for each layout binding, only the
// applicable bindings array is walked and matched by (binding, index).
// A buffer binding's SizeWholeBuffer sentinel resolves to
// buffer.Size()-offset here, before reaching hal. An (binding, index)
// pair with index ≥ the layout binding's declared Count is an
// out-of-range programming error and aborts the process.
func (m *Manager) Update(p hal.Pipeline, setIndex uint32, set hal.BindSet, bindings hal.BindSetBindings) {
	layout, ok := findLayout(p, setIndex)
	if !ok {
		fatal.Abort("bind: pipeline has no descriptor set at index %d", setIndex)
	}

	resolved := hal.BindSetBindings{
		ImageBindings:   bindings.ImageBindings,
		SamplerBindings: bindings.SamplerBindings,
		TlasBindings:    bindings.TlasBindings,
	}

	resolved.BufferBindings = make([]hal.BufferBinding, len(bindings.BufferBindings))
	for i, bb := range bindings.BufferBindings {
		checkIndexInRange(layout, bb.Binding, bb.Index)
		r := bb
		if r.Range == hal.SizeWholeBuffer {
			r.Range = bb.Buffer.Size() - bb.Offset
		}
		resolved.BufferBindings[i] = r
	}
	for _, ib := range bindings.ImageBindings {
		checkIndexInRange(layout, ib.Binding, ib.Index)
	}
	for _, sb := range bindings.SamplerBindings {
		checkIndexInRange(layout, sb.Binding, sb.Index)
	}
	for _, tb := range bindings.TlasBindings {
		checkIndexInRange(layout, tb.Binding, tb.Index)
	}

	m.dev.UpdateBindSet(set, layout, resolved)
}

func findLayout(p hal.Pipeline, setIndex uint32) (hal.DescriptorSetLayout, bool) {
	for _, l := range p.DescriptorSetLayouts() {
		if l.Set == setIndex {
			return l, true
		}
	}
	return hal.DescriptorSetLayout{}, false
}

func checkIndexInRange(layout hal.DescriptorSetLayout, binding, index uint32) {
	for _, b := range layout.Bindings {
		if b.Binding == binding {
			if index >= b.Count {
				fatal.Abort("bind: index %d out of range for binding %d (count %d)", index, binding, b.Count)
			}
			return
		}
	}
	fatal.Abort("bind: no such binding %d in descriptor set layout", binding)
}
