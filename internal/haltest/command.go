package haltest

import "github.com/pablode/cgpu/hal"

// CommandBuffer is a fake hal.CommandBuffer. It carries no state itself;
// the commands recorded into it live on the Recorder returned for it, so
// that re-recording (cmd.Begin/End again) starts from a clean op log, per
// the begin/end recording lifecycle every hal.Recorder implementation
// follows.
type CommandBuffer struct {
	destroyed bool
}

func (c *CommandBuffer) Destroy()        {}
func (c *CommandBuffer) Destroyed() bool { return c.destroyed }

// Op is one recorded Recorder call, identified by Kind with the
// arguments relevant to that kind populated; all other fields are zero.
type Op struct {
	Kind OpKind

	// BindPipeline
	Pipeline       hal.Pipeline
	Sets           []hal.BindSet
	DynamicOffsets []uint32

	// TransitionShaderImages
	Layout hal.DescriptorSetLayout
	Images []hal.ImageBinding

	// CopyBufferToBuffer / CopyBufferToImage / FillBuffer / UpdateBuffer
	SrcBuffer hal.Buffer
	DstBuffer hal.Buffer
	DstImage  hal.Image
	SrcOffset uint64
	DstOffset uint64
	Size      uint64
	Width     uint32
	Height    uint32
	Depth     uint32
	FillValue byte
	Data      []byte

	// PushConstants
	PushData []byte

	// Dispatch / TraceRays
	X, Y, Z uint32

	// PipelineBarrier
	Barriers hal.BarrierGroup

	// timestamps
	TimestampOffset uint32
	TimestampCount  uint32
	TimestampIndex  uint32
	TimestampWait   bool
}

// OpKind identifies which Recorder method produced an Op.
type OpKind int

const (
	OpBegin OpKind = iota
	OpEnd
	OpBindPipeline
	OpTransitionShaderImages
	OpCopyBufferToBuffer
	OpCopyBufferToImage
	OpPushConstants
	OpDispatch
	OpTraceRays
	OpPipelineBarrier
	OpResetTimestamps
	OpWriteTimestamp
	OpCopyTimestamps
	OpFillBuffer
	OpUpdateBuffer
)

// Recorder is a fake hal.Recorder that appends every call to Ops instead
// of talking to a device, so command package tests assert directly on
// the recorded sequence.
type Recorder struct {
	cmd     *CommandBuffer
	Ops     []Op
	begun   bool
	ended   bool
}

func (r *Recorder) Begin(_ bool) error {
	r.begun = true
	r.Ops = append(r.Ops, Op{Kind: OpBegin})
	return nil
}

func (r *Recorder) End() error {
	r.ended = true
	r.Ops = append(r.Ops, Op{Kind: OpEnd})
	return nil
}

func (r *Recorder) BindPipeline(pipeline hal.Pipeline, sets []hal.BindSet, dynamicOffsets []uint32) {
	r.Ops = append(r.Ops, Op{Kind: OpBindPipeline, Pipeline: pipeline, Sets: sets, DynamicOffsets: dynamicOffsets})
}

func (r *Recorder) TransitionShaderImages(layout hal.DescriptorSetLayout, images []hal.ImageBinding) {
	for _, ib := range images {
		img := ib.Image.(*Image)
		img.SetState(hal.ImageLayoutGeneral, hal.AccessShaderRead|hal.AccessShaderWrite)
	}
	r.Ops = append(r.Ops, Op{Kind: OpTransitionShaderImages, Layout: layout, Images: images})
}

func (r *Recorder) CopyBufferToBuffer(src, dst hal.Buffer, srcOffset, dstOffset, size uint64) {
	s, d := src.(*Buffer), dst.(*Buffer)
	if s.data != nil && d.data != nil {
		copy(d.data[dstOffset:dstOffset+size], s.data[srcOffset:srcOffset+size])
	}
	r.Ops = append(r.Ops, Op{Kind: OpCopyBufferToBuffer, SrcBuffer: src, DstBuffer: dst, SrcOffset: srcOffset, DstOffset: dstOffset, Size: size})
}

func (r *Recorder) CopyBufferToImage(src hal.Buffer, srcOffset uint64, dst hal.Image, width, height, depth uint32) {
	img := dst.(*Image)
	if img.Layout() != hal.ImageLayoutGeneral {
		img.SetState(hal.ImageLayoutGeneral, img.AccessMask()|hal.AccessMemoryWrite)
	}
	r.Ops = append(r.Ops, Op{Kind: OpCopyBufferToImage, SrcBuffer: src, SrcOffset: srcOffset, DstImage: dst, Width: width, Height: height, Depth: depth})
}

func (r *Recorder) PushConstants(pipeline hal.Pipeline, data []byte) {
	r.Ops = append(r.Ops, Op{Kind: OpPushConstants, Pipeline: pipeline, PushData: data})
}

func (r *Recorder) Dispatch(x, y, z uint32) {
	r.Ops = append(r.Ops, Op{Kind: OpDispatch, X: x, Y: y, Z: z})
}

func (r *Recorder) TraceRays(pipeline hal.Pipeline, width, height uint32) {
	r.Ops = append(r.Ops, Op{Kind: OpTraceRays, Pipeline: pipeline, X: width, Y: height})
}

func (r *Recorder) PipelineBarrier(barriers hal.BarrierGroup) {
	for _, ib := range barriers.Image {
		img := ib.Image.(*Image)
		img.SetState(img.Layout(), ib.DstAccess)
	}
	r.Ops = append(r.Ops, Op{Kind: OpPipelineBarrier, Barriers: barriers})
}

func (r *Recorder) ResetTimestamps(offset, count uint32) {
	r.Ops = append(r.Ops, Op{Kind: OpResetTimestamps, TimestampOffset: offset, TimestampCount: count})
}

func (r *Recorder) WriteTimestamp(index uint32) {
	r.Ops = append(r.Ops, Op{Kind: OpWriteTimestamp, TimestampIndex: index})
}

func (r *Recorder) CopyTimestamps(dst hal.Buffer, offset uint64, count uint32, wait bool) {
	r.Ops = append(r.Ops, Op{Kind: OpCopyTimestamps, DstBuffer: dst, DstOffset: offset, TimestampCount: count, TimestampWait: wait})
}

func (r *Recorder) FillBuffer(dst hal.Buffer, offset, size uint64, value byte) {
	b := dst.(*Buffer)
	if b.data != nil {
		for i := offset; i < offset+size; i++ {
			b.data[i] = value
		}
	}
	r.Ops = append(r.Ops, Op{Kind: OpFillBuffer, DstBuffer: dst, DstOffset: offset, Size: size, FillValue: value})
}

func (r *Recorder) UpdateBuffer(dst hal.Buffer, offset uint64, data []byte) error {
	b := dst.(*Buffer)
	if b.data != nil {
		copy(b.data[offset:], data)
	}
	r.Ops = append(r.Ops, Op{Kind: OpUpdateBuffer, DstBuffer: dst, DstOffset: offset, Data: data})
	return nil
}
