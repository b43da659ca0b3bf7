package command

import (
	"github.com/pablode/cgpu/hal"
	"github.com/pablode/cgpu/internal/fatal"
)

// maxTimestampsInFlight is spec.md §4.8's desktop-only timestamp-query
// limit.
const maxTimestampsInFlight = 32

// Recorder wraps a hal.Recorder, adding the implicit-bound-pipeline state
// push constants and trace rays rely on, and the sentinel/limit checks
// spec.md §4.8 places above hal.
type Recorder struct {
	rec hal.Recorder

	boundPipeline hal.Pipeline
}

// New wraps rec. rec must not yet have had Begin called.
func New(rec hal.Recorder) *Recorder {
	return &Recorder{rec: rec}
}

// Begin starts recording.
func (r *Recorder) Begin(oneShotSimultaneous bool) error {
	return r.rec.Begin(oneShotSimultaneous)
}

// End finishes recording. The bound pipeline is forgotten: per spec.md
// §9's cyclic-ownership note, a Recorder's bound-pipeline pointer is only
// valid while recording.
func (r *Recorder) End() error {
	err := r.rec.End()
	r.boundPipeline = nil
	return err
}

// BindPipeline binds pipeline and one BindSet per descriptor-set slot.
func (r *Recorder) BindPipeline(pipeline hal.Pipeline, sets []hal.BindSet, dynamicOffsets []uint32) {
	r.rec.BindPipeline(pipeline, sets, dynamicOffsets)
	r.boundPipeline = pipeline
}

// TransitionShaderImages transitions the given descriptor set's image
// bindings to the layout their binding type requires. The target-layout
// derivation and already-matching skip both happen inside the hal
// backend (see hal.Recorder.TransitionShaderImages).
func (r *Recorder) TransitionShaderImages(layout hal.DescriptorSetLayout, images []hal.ImageBinding) {
	r.rec.TransitionShaderImages(layout, images)
}

// CopyBufferToBuffer copies size bytes. SizeWholeBuffer resolves to
// src.Size() - srcOffset.
func (r *Recorder) CopyBufferToBuffer(src, dst hal.Buffer, srcOffset, dstOffset, size uint64) {
	if size == hal.SizeWholeBuffer {
		size = src.Size() - srcOffset
	}
	r.rec.CopyBufferToBuffer(src, dst, srcOffset, dstOffset, size)
}

// CopyBufferToImage copies a tightly-packed region into dst. The
// transition to General when dst isn't already there happens inside the
// hal backend (see hal.Recorder.CopyBufferToImage).
func (r *Recorder) CopyBufferToImage(src hal.Buffer, srcOffset uint64, dst hal.Image, width, height, depth uint32) {
	r.rec.CopyBufferToImage(src, srcOffset, dst, width, height, depth)
}

// PushConstants writes data using the currently bound pipeline's stage
// flags. Fatal if no pipeline is bound.
func (r *Recorder) PushConstants(data []byte) {
	if r.boundPipeline == nil {
		fatal.Abort("command: PushConstants called with no bound pipeline")
	}
	r.rec.PushConstants(r.boundPipeline, data)
}

// Dispatch issues a compute dispatch.
func (r *Recorder) Dispatch(x, y, z uint32) {
	r.rec.Dispatch(x, y, z)
}

// TraceRays issues a ray-trace of width*height*1 rays using the currently
// bound pipeline's SBT regions. Fatal if no pipeline is bound, or if the
// bound pipeline isn't a ray-tracing pipeline.
func (r *Recorder) TraceRays(width, height uint32) {
	if r.boundPipeline == nil {
		fatal.Abort("command: TraceRays called with no bound pipeline")
	}
	if r.boundPipeline.BindPoint() != hal.PipelineBindPointRayTracing {
		fatal.Abort("command: TraceRays called with a non-ray-tracing pipeline bound")
	}
	r.rec.TraceRays(r.boundPipeline, width, height)
}

// PipelineBarrier records explicit global/buffer/image barriers.
func (r *Recorder) PipelineBarrier(barriers hal.BarrierGroup) {
	r.rec.PipelineBarrier(barriers)
}

// ResetTimestamps resets [offset, offset+count) queries. Fatal if that
// range exceeds the 32-query-in-flight limit.
func (r *Recorder) ResetTimestamps(offset, count uint32) {
	if offset+count > maxTimestampsInFlight {
		fatal.Abort("command: %d timestamp queries requested, max %d in flight", offset+count, maxTimestampsInFlight)
	}
	r.rec.ResetTimestamps(offset, count)
}

// WriteTimestamp writes the current GPU timestamp into query index.
// Fatal if index is outside the 32-query-in-flight limit.
func (r *Recorder) WriteTimestamp(index uint32) {
	if index >= maxTimestampsInFlight {
		fatal.Abort("command: timestamp index %d exceeds max %d in flight", index, maxTimestampsInFlight)
	}
	r.rec.WriteTimestamp(index)
}

// CopyTimestamps reads back count timestamp results into dst at offset.
// When wait is true, the device waits for query availability first.
func (r *Recorder) CopyTimestamps(dst hal.Buffer, offset uint64, count uint32, wait bool) {
	r.rec.CopyTimestamps(dst, offset, count, wait)
}

// FillBuffer fills [dstOffset, dstOffset+size) with a repeated byte.
// SizeWholeBuffer resolves to dst.Size() - dstOffset. size must be a
// multiple of 4; fatal otherwise.
func (r *Recorder) FillBuffer(dst hal.Buffer, offset, size uint64, value byte) {
	if size == hal.SizeWholeBuffer {
		size = dst.Size() - offset
	}
	if size%4 != 0 {
		fatal.Abort("command: FillBuffer size %d is not a multiple of 4", size)
	}
	r.rec.FillBuffer(dst, offset, size, value)
}

// UpdateBuffer writes small, CPU-sourced data directly into dst. The
// Metal backend returns a fatal error here since its
// maxBufferUpdateSize is 0 (spec.md §6.4); callers must use
// CopyBufferToBuffer via a staging buffer instead.
func (r *Recorder) UpdateBuffer(dst hal.Buffer, offset uint64, data []byte) error {
	return r.rec.UpdateBuffer(dst, offset, data)
}
