// Package core implements cgpu's handle store: a generational-index
// allocator mapping opaque 64-bit handles onto backend records.
//
// Every user-visible cgpu entity (Device, Buffer, Image, Sampler, Shader,
// Pipeline, Blas, Tlas, BindSet, CommandBuffer, Semaphore) is identified by
// a type-safe ID[T] built from an index and an epoch:
//
//	type BufferID = ID[BufferMarker]
//	id := NewID[BufferMarker](index, epoch)
//	index, epoch := id.Unzip()
//
// The epoch increments every time a slot is freed, so a handle captured
// before a free never aliases the slot after it is reused — exactly the
// version-tag behavior spec.md's Handle Store requires: "Subsequent get
// with old handle MUST return INVALID."
//
// Resources live in a Registry[T, M], which combines an IdentityManager
// (index/epoch allocation) with a Storage (slab lookup):
//
//	registry := NewRegistry[Buffer, BufferMarker]()
//	id := registry.Register(buffer)
//	buffer, err := registry.Get(id)
//	registry.Unregister(id)
//
// Slabs never shrink. On growth Storage reallocates and copies into a
// larger backing slice while holding its own lock, so existing elements
// move; callers never hold a raw pointer across a call boundary, so no
// caller observes the move: every lookup re-resolves the handle.
//
// All types in this package are safe for concurrent use.
package core
