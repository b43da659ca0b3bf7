package pipeline

import "github.com/pablode/cgpu/hal"

// SBTLayout is the computed stride/size for all three shader binding
// table regions, per spec.md §4.6's layout table. Offsets are relative
// to the start of the SBT buffer; rayGen is always at offset 0.
type SBTLayout struct {
	RayGenSize   uint64
	RayGenStride uint64

	MissOffset uint64
	MissSize   uint64
	MissStride uint64

	HitOffset uint64
	HitSize   uint64
	HitStride uint64

	// TotalSize is the SBT buffer's required size: RayGenSize + MissSize
	// + HitSize.
	TotalSize uint64
}

// ComputeSBTLayout derives the shader binding table's region strides and
// sizes from the device's handle size/alignment and group base
// alignment, and the pipeline's miss/hit group counts.
//
// rayGen's region size must equal its stride (a Vulkan requirement); its
// stride is handleSize aligned first to handleAlignment, then to
// baseAlignment. miss and hit strides stop at the handleAlignment step;
// their region sizes are groupCount*stride rounded up to baseAlignment.
func ComputeSBTLayout(handleSize, handleAlignment, baseAlignment uint32, missCount, hitCount uint32) SBTLayout {
	handleStride := alignUp64(uint64(handleSize), uint64(handleAlignment))

	rayGenStride := alignUp64(handleStride, uint64(baseAlignment))
	rayGenSize := rayGenStride

	missStride := handleStride
	missSize := alignUp64(uint64(missCount)*missStride, uint64(baseAlignment))

	hitStride := handleStride
	hitSize := alignUp64(uint64(hitCount)*hitStride, uint64(baseAlignment))

	return SBTLayout{
		RayGenSize:   rayGenSize,
		RayGenStride: rayGenStride,

		MissOffset: rayGenSize,
		MissSize:   missSize,
		MissStride: missStride,

		HitOffset: rayGenSize + missSize,
		HitSize:   hitSize,
		HitStride: hitStride,

		TotalSize: rayGenSize + missSize + hitSize,
	}
}

// Regions resolves an SBTLayout against an SBT buffer's base device
// address into the three hal.ShaderBindingTableRegion values recorded
// on a ray-tracing pipeline.
func (l SBTLayout) Regions(baseAddress uint64) hal.ShaderBindingTable {
	return hal.ShaderBindingTable{
		RayGen: hal.ShaderBindingTableRegion{
			DeviceAddress: baseAddress,
			Stride:        l.RayGenStride,
			Size:          l.RayGenSize,
		},
		Miss: hal.ShaderBindingTableRegion{
			DeviceAddress: baseAddress + l.MissOffset,
			Stride:        l.MissStride,
			Size:          l.MissSize,
		},
		Hit: hal.ShaderBindingTableRegion{
			DeviceAddress: baseAddress + l.HitOffset,
			Stride:        l.HitStride,
			Size:          l.HitSize,
		},
	}
}

func alignUp64(v, align uint64) uint64 {
	if align == 0 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}
