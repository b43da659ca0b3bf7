package hal

// Recorder records commands into one CommandBuffer. It is single-use:
// Begin, then any number of recording calls, then End.
type Recorder interface {
	// Begin starts recording. oneShotSimultaneous mirrors Vulkan's
	// ONE_TIME_SUBMIT | SIMULTANEOUS_USE begin flags; there is no
	// inheritance info since cgpu never records secondary command
	// buffers.
	Begin(oneShotSimultaneous bool) error
	// End finishes recording, after which the command buffer is ready
	// for submission.
	End() error

	// BindPipeline binds pipeline and one BindSet per descriptor-set
	// slot in [0, len(sets)), plus one dynamic offset per dynamic-uniform
	// buffer binding across all sets, in order.
	BindPipeline(pipeline Pipeline, sets []BindSet, dynamicOffsets []uint32)

	// TransitionShaderImages transitions every image bound in the given
	// layout/bindings pair to the layout its binding type requires
	// (sampled -> read-only-optimal, storage -> general), batched into a
	// single barrier call. Only bindings whose tracked layout differs
	// from the target are included.
	TransitionShaderImages(layout DescriptorSetLayout, images []ImageBinding)

	CopyBufferToBuffer(src, dst Buffer, srcOffset, dstOffset, size uint64)
	// CopyBufferToImage transitions dst to General first if needed, then
	// issues a single tightly-packed copy (row length = image height = 0,
	// color aspect, mip 0, layer 0).
	CopyBufferToImage(src Buffer, srcOffset uint64, dst Image, width, height, depth uint32)

	PushConstants(pipeline Pipeline, data []byte)

	Dispatch(x, y, z uint32)
	// TraceRays dispatches width*height*1 rays using pipeline's SBT
	// regions and a null callable region.
	TraceRays(pipeline Pipeline, width, height uint32)

	// PipelineBarrier groups explicit global/buffer/image barriers. Image
	// barriers carry only a destination access mask — the source access
	// comes from the image's tracked state, and layout is unchanged by
	// this call. Each image barrier updates its image's tracked access
	// mask after recording.
	PipelineBarrier(barriers BarrierGroup)

	// ResetTimestamps, WriteTimestamp and CopyTimestamps implement
	// spec.md §4.8's desktop-only timestamp queries; at most 32 queries
	// may be in flight, enforced by the command package above hal.
	ResetTimestamps(offset, count uint32)
	WriteTimestamp(index uint32)
	CopyTimestamps(dst Buffer, offset uint64, count uint32, wait bool)

	FillBuffer(dst Buffer, offset, size uint64, value byte)

	// UpdateBuffer writes small, CPU-sourced data directly into a buffer
	// from command-buffer recording. The Metal backend returns a fatal
	// error here since Metal's maxBufferUpdateSize is 0 (spec.md §6.4);
	// callers must use CopyBufferToBuffer via a staging buffer instead.
	UpdateBuffer(dst Buffer, offset uint64, data []byte) error
}

// GlobalBarrier is a memory barrier with no specific resource.
type GlobalBarrier struct {
	SrcStage  PipelineStageFlags
	SrcAccess AccessFlags
	DstStage  PipelineStageFlags
	DstAccess AccessFlags
}

// BufferMemoryBarrier is a barrier scoped to one buffer.
type BufferMemoryBarrier struct {
	Buffer    Buffer
	SrcStage  PipelineStageFlags
	SrcAccess AccessFlags
	DstStage  PipelineStageFlags
	DstAccess AccessFlags
}

// ImageMemoryBarrier is a barrier scoped to one image. Only the
// destination access mask is caller-supplied; the source access comes
// from the image's tracked state and the layout is preserved.
type ImageMemoryBarrier struct {
	Image     Image
	SrcStage  PipelineStageFlags
	DstStage  PipelineStageFlags
	DstAccess AccessFlags
}

// BarrierGroup is the set of barriers recorded by one PipelineBarrier call.
type BarrierGroup struct {
	Global []GlobalBarrier
	Buffer []BufferMemoryBarrier
	Image  []ImageMemoryBarrier
}
