// Package reflect parses a raw SPIR-V module and extracts the subset of
// metadata cgpu needs to build descriptor-set layouts, push-constant ranges,
// and ray-tracing shader-binding-table sizing: descriptor bindings per set,
// the push-constant block size, the largest ray-payload and hit-attribute
// interface variables, the ray-payload count, and the compute workgroup
// size.
//
// The module is walked as a flat stream of 32-bit words per the SPIR-V
// binary format (magic, version, generator, bound, schema, then a sequence
// of instructions); no copy of the input is retained once Reflect returns.
package reflect
