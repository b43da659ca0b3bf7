// Package pipeline implements cgpu's Pipeline Compiler: compute and
// ray-tracing pipeline compilation from spec.md §4.6, built on top of
// the reflect package's SPIR-V metadata and the hal.Device pipeline
// factory methods.
//
// The descriptor-set-layout derivation (partially-bound array slots,
// uniform-buffer-to-uniform-buffer-dynamic remap) and the shader
// binding table's stride/size arithmetic are both pure functions of
// reflected metadata, so they are tested directly without a hal.Device
// at all; only the pipeline object's creation goes through hal.
package pipeline
