// Package cgpu is the root facade of the compute+ray-tracing GPU
// abstraction layer: a single backend-agnostic, handle-based API an
// application uses to allocate GPU memory, compile shaders, build
// acceleration structures, record command buffers, and submit work
// against a compute+transfer queue.
//
// Initialize opens a Context — the process-wide instance+device
// singleton spec.md §3 describes — and every other entry point in this
// package takes that Context plus a handle returned by an earlier Create
// call. Handles are the opaque, generational (version, index) pairs
// core.ID[T] implements; a handle from a terminated Context, or a handle
// whose resource has already been destroyed, fails validation rather
// than aliasing a reused slot.
//
// Initialize selects a backend by GOOS through hal.GetBackend
// (hal.BackendMetal on darwin, hal.BackendVulkan otherwise). This module
// contains no backend package, so Initialize returns an error until a
// backend has been registered with hal.RegisterBackend.
package cgpu
