package haltest

import (
	"sync"
	"sync/atomic"

	"github.com/pablode/cgpu/hal"
)

// Device is a fake hal.Device. The zero value is not usable; construct
// with NewDevice.
type Device struct {
	mu sync.Mutex

	asScratchAlignment uint64
	nextAddress        uint64
	destroyed          bool

	// BlasSize and TlasSize let a test override the build-size formula;
	// both default to a deterministic size derived from the input shape.
	BlasSize func(hal.BlasBuildInput) hal.BuildSizes
	TlasSize func(hal.TlasBuildInput) hal.BuildSizes
}

// NewDevice constructs a fake device. asScratchAlignment is returned
// verbatim from AsScratchAlignment.
func NewDevice(asScratchAlignment uint64) *Device {
	return &Device{asScratchAlignment: asScratchAlignment}
}

func (d *Device) allocAddress() uint64 {
	return atomic.AddUint64(&d.nextAddress, 64)
}

// CreateBuffer allocates a real byte slice for a host-visible buffer so
// tests can read back whatever its MappedPointer was written with; other
// buffers get no backing slice.
func (d *Device) CreateBuffer(desc hal.BufferDescriptor) (hal.Buffer, error) {
	b := &Buffer{
		size:         desc.Size,
		usage:        desc.Usage,
		hostVisible:  desc.HostVisible,
		hostCoherent: desc.HostCoherent,
	}
	if desc.HostVisible {
		b.data = make([]byte, desc.Size)
	}
	if desc.Usage&(hal.BufferUsageShaderDeviceAddress|
		hal.BufferUsageAccelerationStructureBuildInput|
		hal.BufferUsageAccelerationStructureStorage|
		hal.BufferUsageShaderBindingTable) != 0 {
		b.address = d.allocAddress()
	}
	return b, nil
}

func (d *Device) DestroyBuffer(b hal.Buffer) {
	b.(*Buffer).destroyed = true
}

// FlushMappedMemory and InvalidateMappedMemory are no-ops: a host-visible
// Buffer backs onto a real slice, so host and "device" see the same bytes
// immediately.
func (d *Device) FlushMappedMemory(_ hal.Buffer, _, _ uint64) error      { return nil }
func (d *Device) InvalidateMappedMemory(_ hal.Buffer, _, _ uint64) error { return nil }

func (d *Device) CreateImage(desc hal.ImageDescriptor) (hal.Image, error) {
	img := &Image{
		desc:   desc,
		layout: hal.ImageLayoutUndefined,
		access: hal.AccessNone,
	}
	if desc.LinearTiling {
		img.data = make([]byte, imageByteSize(desc))
	}
	return img, nil
}

func (d *Device) DestroyImage(img hal.Image) {
	img.(*Image).destroyed = true
}

func (d *Device) MapImage(img hal.Image) ([]byte, error) {
	i := img.(*Image)
	if i.data == nil {
		return nil, hal.ErrDriverBug
	}
	return i.data, nil
}

func (d *Device) UnmapImage(_ hal.Image) {}

func (d *Device) CreateSampler(desc hal.SamplerDescriptor) (hal.Sampler, error) {
	return &Sampler{desc: desc}, nil
}

func (d *Device) DestroySampler(s hal.Sampler) { s.(*Sampler).destroyed = true }

func (d *Device) CreateShader(desc hal.ShaderDescriptor) (hal.Shader, error) {
	return &Shader{desc: desc}, nil
}

func (d *Device) DestroyShader(s hal.Shader) { s.(*Shader).destroyed = true }

func (d *Device) CreateComputePipeline(desc hal.ComputePipelineDescriptor) (hal.Pipeline, error) {
	return &Pipeline{
		bindPoint: hal.PipelineBindPointCompute,
		label:     desc.Label,
		pool:      &BindSetPool{},
	}, nil
}

func (d *Device) CreateRayTracingPipeline(desc hal.RayTracingPipelineDescriptor) (hal.Pipeline, error) {
	return &Pipeline{
		bindPoint: hal.PipelineBindPointRayTracing,
		label:     desc.Label,
		pool:      &BindSetPool{},
	}, nil
}

func (d *Device) DestroyPipeline(p hal.Pipeline) { p.(*Pipeline).destroyed = true }

func (d *Device) QueryBlasBuildSizes(input hal.BlasBuildInput) (hal.BuildSizes, error) {
	if d.BlasSize != nil {
		return d.BlasSize(input), nil
	}
	scratch := uint64(input.TriangleCount)*256 + 256
	return hal.BuildSizes{
		AccelerationStructureSize: uint64(input.TriangleCount)*64 + 512,
		BuildScratchSize:          scratch,
	}, nil
}

func (d *Device) QueryTlasBuildSizes(input hal.TlasBuildInput) (hal.BuildSizes, error) {
	if d.TlasSize != nil {
		return d.TlasSize(input), nil
	}
	n := uint64(len(input.Instances))
	if n == 0 {
		n = 1
	}
	return hal.BuildSizes{
		AccelerationStructureSize: n*64 + 256,
		BuildScratchSize:          n*64 + 256,
	}, nil
}

func (d *Device) CreateBlas(backing hal.Buffer, size uint64, opaque bool) (hal.Blas, error) {
	return &Blas{
		address: d.allocAddress(),
		size:    size,
		opaque:  opaque,
		backing: backing,
	}, nil
}

func (d *Device) CreateTlas(backing hal.Buffer, size uint64) (hal.Tlas, error) {
	return &Tlas{address: d.allocAddress(), size: size, backing: backing}, nil
}

func (d *Device) DestroyBlas(b hal.Blas) { b.(*Blas).destroyed = true }
func (d *Device) DestroyTlas(t hal.Tlas) { t.(*Tlas).destroyed = true }

func (d *Device) AsScratchAlignment() uint64 { return d.asScratchAlignment }

func (d *Device) CreateBindSet(layout hal.DescriptorSetLayout, pool hal.BindSetPool) (hal.BindSet, error) {
	return &BindSet{layout: layout, pool: pool}, nil
}

func (d *Device) DestroyBindSet(s hal.BindSet) { s.(*BindSet).destroyed = true }

func (d *Device) UpdateBindSet(set hal.BindSet, layout hal.DescriptorSetLayout, bindings hal.BindSetBindings) {
	s := set.(*BindSet)
	s.layout = layout
	s.lastUpdate = bindings
}

func (d *Device) CreateCommandBuffer() (hal.CommandBuffer, error) {
	return &CommandBuffer{}, nil
}

func (d *Device) DestroyCommandBuffer(cmd hal.CommandBuffer) { cmd.(*CommandBuffer).destroyed = true }

func (d *Device) CreateSemaphore(initialValue uint64) (hal.Semaphore, error) {
	sem := &Semaphore{}
	sem.value.Store(initialValue)
	return sem, nil
}

func (d *Device) DestroySemaphore(s hal.Semaphore) { s.(*Semaphore).destroyed = true }

// WaitSemaphores is synchronous: the fake never signals a semaphore from
// a background goroutine, so a wait that is not already satisfied can
// never become satisfied and immediately reports ErrTimeout.
func (d *Device) WaitSemaphores(waits []hal.SemaphoreWait, _ uint64) error {
	for _, w := range waits {
		if w.Semaphore.(*Semaphore).value.Load() < w.Value {
			return hal.ErrTimeout
		}
	}
	return nil
}

// SubmitCommandBuffer checks every wait is already satisfied, then
// stores each signal's value. It does not replay the command buffer's
// recorded operations; accel/command package tests assert on Recorder
// output directly instead.
func (d *Device) SubmitCommandBuffer(cmd hal.CommandBuffer, signals, waits []hal.SemaphoreWait) error {
	if err := d.WaitSemaphores(waits, 0); err != nil {
		return err
	}
	for _, s := range signals {
		s.Semaphore.(*Semaphore).value.Store(s.Value)
	}
	return nil
}

func (d *Device) Recorder(cmd hal.CommandBuffer) hal.Recorder {
	return &Recorder{cmd: cmd.(*CommandBuffer)}
}

func (d *Device) Destroy() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroyed = true
}

func (d *Device) Destroyed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.destroyed
}

func imageByteSize(desc hal.ImageDescriptor) uint64 {
	bpp := uint64(4)
	switch desc.Format {
	case hal.ImageFormatRGBA16Sfloat:
		bpp = 8
	case hal.ImageFormatR32Sfloat:
		bpp = 4
	}
	depth := uint64(desc.Depth)
	if depth == 0 {
		depth = 1
	}
	return uint64(desc.Width) * uint64(desc.Height) * depth * bpp
}
