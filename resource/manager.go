package resource

import (
	"github.com/pablode/cgpu/hal"
)

// baseBufferAlignment is the 32-byte floor every buffer size and
// alignment is rounded up to, per spec.md §4.4 step 1: it enables wide
// vector loads and comfortably satisfies cmdFillBuffer's "multiple of 4"
// requirement.
const baseBufferAlignment = 32

// defaultHostMapAlignment is used when a backend does not report a
// stricter minimum host memory-map alignment.
const defaultHostMapAlignment = 64

// priorityUsageMask is the set of buffer usages that get memory priority
// 1.0 instead of 0.5, per spec.md §4.4 step 4.
const priorityUsageMask = hal.BufferUsageAccelerationStructureBuildInput |
	hal.BufferUsageAccelerationStructureStorage |
	hal.BufferUsageShaderBindingTable |
	hal.BufferUsageShaderDeviceAddress

// Manager wraps a hal.Device with cgpu's Resource Manager algorithm: the
// buffer and image creation rules from spec.md §4.4, plus an
// AS-scratch allocation helper carrying the dedicated pool's fixed
// parameters (device-local, plus host-visible+host-coherent on
// shared-memory hardware, priority 1.0, aligned to the device's
// acceleration-structure scratch-offset alignment).
type Manager struct {
	dev hal.Device

	// sharedMemory is true when the device's largest device-local heap is
	// also host-visible (UMA or resizable-BAR), per device.MemoryInfo.
	sharedMemory bool

	// asScratchAlignment is the device's minimum AS-scratch-offset
	// alignment (device.Properties.MinAccelerationStructureScratchOffsetAlignment).
	asScratchAlignment uint64

	// hostMapAlignment is the device's minimum host memory-map alignment;
	// 0 falls back to defaultHostMapAlignment.
	hostMapAlignment uint64
}

// NewManager constructs a Manager bound to dev.
func NewManager(dev hal.Device, sharedMemory bool, asScratchAlignment, hostMapAlignment uint64) *Manager {
	if hostMapAlignment == 0 {
		hostMapAlignment = defaultHostMapAlignment
	}
	return &Manager{
		dev:                dev,
		sharedMemory:       sharedMemory,
		asScratchAlignment: asScratchAlignment,
		hostMapAlignment:   hostMapAlignment,
	}
}

// BufferRequest is the caller-supplied intent for CreateBuffer; the
// Manager fills in the rest per spec.md §4.4's algorithm.
type BufferRequest struct {
	Label string
	Size  uint64
	Usage hal.BufferUsage

	// Alignment is the caller's minimum required alignment (0 if none);
	// the Manager widens this to at least baseBufferAlignment and, for
	// host-visible buffers, at least hostMapAlignment.
	Alignment uint64
}

// CreateBuffer runs spec.md §4.4's buffer-creation algorithm and creates
// the buffer through the bound hal.Device.
func (m *Manager) CreateBuffer(req BufferRequest) (hal.Buffer, error) {
	size := alignUp(req.Size, baseBufferAlignment)

	hostVisible := m.sharedMemory
	hostCoherent := hostVisible

	alignment := req.Alignment
	if alignment < baseBufferAlignment {
		alignment = baseBufferAlignment
	}
	if hostVisible && alignment < m.hostMapAlignment {
		alignment = m.hostMapAlignment
	}

	priority := hal.MemoryPriorityNormal
	if req.Usage&priorityUsageMask != 0 {
		priority = hal.MemoryPriorityHigh
	}

	desc := hal.BufferDescriptor{
		Label:        req.Label,
		Size:         size,
		Usage:        req.Usage,
		HostVisible:  hostVisible,
		HostCoherent: hostCoherent,
		Priority:     priority,
		Alignment:    alignment,
	}

	return m.dev.CreateBuffer(desc)
}

// DestroyBuffer releases a buffer created by CreateBuffer.
func (m *Manager) DestroyBuffer(b hal.Buffer) {
	m.dev.DestroyBuffer(b)
}

// AllocateScratch allocates a scratch buffer from the AS-scratch pool:
// device-local, host-visible+host-coherent if the device is a
// shared-memory device, priority 1.0, aligned to the device's
// AS-scratch-offset alignment, per spec.md §4.4's dedicated pool and
// §4.5 step 3.
func (m *Manager) AllocateScratch(size uint64) (hal.Buffer, error) {
	return m.CreateBuffer(BufferRequest{
		Label:     "as-scratch",
		Size:      size,
		Usage:     hal.BufferUsageStorageBuffer | hal.BufferUsageShaderDeviceAddress | hal.BufferUsageAccelerationStructureBuildInput,
		Alignment: m.asScratchAlignment,
	})
}

// FlushMappedMemory makes host writes to a non-coherent host-visible
// buffer's mapped range visible to the device. A no-op on host-coherent
// buffers.
func (m *Manager) FlushMappedMemory(b hal.Buffer, offset, size uint64) error {
	if b.HostCoherent() {
		return nil
	}
	return m.dev.FlushMappedMemory(b, offset, size)
}

// InvalidateMappedMemory makes device writes visible to subsequent host
// reads through a non-coherent host-visible buffer's mapped range. A
// no-op on host-coherent buffers.
func (m *Manager) InvalidateMappedMemory(b hal.Buffer, offset, size uint64) error {
	if b.HostCoherent() {
		return nil
	}
	return m.dev.InvalidateMappedMemory(b, offset, size)
}

func alignUp(v, align uint64) uint64 {
	if align == 0 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}
