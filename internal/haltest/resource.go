package haltest

import "github.com/pablode/cgpu/hal"

// Buffer is a fake hal.Buffer backed by a real byte slice when
// host-visible, so resource package tests can verify what ended up in a
// persistently mapped buffer.
type Buffer struct {
	size         uint64
	usage        hal.BufferUsage
	hostVisible  bool
	hostCoherent bool
	address      uint64
	data         []byte
	destroyed    bool
}

func (b *Buffer) Destroy()              {}
func (b *Buffer) Size() uint64          { return b.size }
func (b *Buffer) DeviceAddress() uint64 { return b.address }
func (b *Buffer) MappedPointer() []byte { return b.data }
func (b *Buffer) HostCoherent() bool    { return b.hostCoherent }

// Usage exposes the usage mask a test created the buffer with, since
// hal.Buffer itself has no such accessor.
func (b *Buffer) Usage() hal.BufferUsage { return b.usage }

// Destroyed reports whether DestroyBuffer has been called on this buffer.
func (b *Buffer) Destroyed() bool { return b.destroyed }

// Image is a fake hal.Image tracking layout/access state plus, for
// linear-tiling images, a real backing byte slice.
type Image struct {
	desc      hal.ImageDescriptor
	layout    hal.ImageLayout
	access    hal.AccessFlags
	data      []byte
	destroyed bool
}

func (i *Image) Destroy()                  {}
func (i *Image) Layout() hal.ImageLayout   { return i.layout }
func (i *Image) AccessMask() hal.AccessFlags { return i.access }

// SetState lets a test (or the command package under test) drive the
// tracked layout/access directly, mirroring what a real backend's
// barrier recording would update in place.
func (i *Image) SetState(layout hal.ImageLayout, access hal.AccessFlags) {
	i.layout = layout
	i.access = access
}

func (i *Image) Destroyed() bool { return i.destroyed }

// Sampler is a fake hal.Sampler.
type Sampler struct {
	desc      hal.SamplerDescriptor
	destroyed bool
}

func (s *Sampler) Destroy()    {}
func (s *Sampler) Destroyed() bool { return s.destroyed }

// Shader is a fake hal.Shader.
type Shader struct {
	desc      hal.ShaderDescriptor
	destroyed bool
}

func (s *Shader) Destroy()             {}
func (s *Shader) Stage() hal.ShaderStage { return s.desc.Stage }
func (s *Shader) Destroyed() bool      { return s.destroyed }

// Pipeline is a fake hal.Pipeline. Layouts, push-constant size and SBT
// are not derived from reflection here (the pipeline package under test
// owns that); a test sets them directly when it needs non-zero values.
type Pipeline struct {
	bindPoint hal.PipelineBindPoint
	label     string
	layouts   []hal.DescriptorSetLayout
	pushSize  uint32
	sbt       hal.ShaderBindingTable
	pool      hal.BindSetPool
	destroyed bool
}

func (p *Pipeline) Destroy()                                    {}
func (p *Pipeline) BindPoint() hal.PipelineBindPoint             { return p.bindPoint }
func (p *Pipeline) DescriptorSetLayouts() []hal.DescriptorSetLayout { return p.layouts }
func (p *Pipeline) PushConstantSize() uint32                    { return p.pushSize }
func (p *Pipeline) ShaderBindingTable() hal.ShaderBindingTable   { return p.sbt }
func (p *Pipeline) Pool() hal.BindSetPool                        { return p.pool }
func (p *Pipeline) Destroyed() bool                              { return p.destroyed }

// SetLayouts, SetPushConstantSize and SetShaderBindingTable let a test
// (typically the pipeline package's own fakes, or a test constructing a
// Pipeline directly) populate what CreateComputePipeline/
// CreateRayTracingPipeline leave zero.
func (p *Pipeline) SetLayouts(l []hal.DescriptorSetLayout)      { p.layouts = l }
func (p *Pipeline) SetPushConstantSize(n uint32)                { p.pushSize = n }
func (p *Pipeline) SetShaderBindingTable(sbt hal.ShaderBindingTable) { p.sbt = sbt }

// Blas is a fake hal.Blas.
type Blas struct {
	address   uint64
	size      uint64
	opaque    bool
	backing   hal.Buffer
	destroyed bool
}

func (b *Blas) Destroy()              {}
func (b *Blas) IsOpaque() bool        { return b.opaque }
func (b *Blas) DeviceAddress() uint64 { return b.address }
func (b *Blas) Size() uint64          { return b.size }
func (b *Blas) Destroyed() bool       { return b.destroyed }

// Tlas is a fake hal.Tlas.
type Tlas struct {
	address   uint64
	size      uint64
	backing   hal.Buffer
	destroyed bool
}

func (t *Tlas) Destroy()        {}
func (t *Tlas) Size() uint64    { return t.size }
func (t *Tlas) Destroyed() bool { return t.destroyed }

// BindSetPool is a fake hal.BindSetPool.
type BindSetPool struct {
	destroyed bool
}

func (p *BindSetPool) Destroy()        {}
func (p *BindSetPool) Destroyed() bool { return p.destroyed }

// BindSet is a fake hal.BindSet recording its most recent Update call so
// bind package tests can assert on exactly what was written.
type BindSet struct {
	layout     hal.DescriptorSetLayout
	pool       hal.BindSetPool
	lastUpdate hal.BindSetBindings
	destroyed  bool
}

func (s *BindSet) Destroy()        {}
func (s *BindSet) Destroyed() bool { return s.destroyed }

// LastUpdate returns the bindings passed to the most recent UpdateBindSet
// call for this set.
func (s *BindSet) LastUpdate() hal.BindSetBindings { return s.lastUpdate }
