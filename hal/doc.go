// Package hal defines the backend-agnostic device/resource/command
// interfaces that hal/vulkan and hal/metal each implement. It carries no
// backend-specific types: the Vulkan 1.1+RT and Metal 4 backends each
// translate these interfaces onto their native API, and every package
// above hal (resource, accel, pipeline, bind, command, gpusync, and the
// root cgpu facade) is written purely against this package.
//
// # Architecture
//
// hal is organized around a single opened Device rather than the
// Instance/Adapter/Surface layering a rasterizer HAL needs:
//
//  1. Backend - factory registered by hal/vulkan or hal/metal's init()
//  2. Instance - enumerates physical devices as device.Candidate values
//  3. Device - logical device: resource creation, command submission
//  4. Recorder - command recording (the only "encoder" concept here)
//
// There is no swapchain, surface or render-pipeline surface — this layer
// targets offline compute and ray tracing only, mirroring cgpu's ten
// entity kinds: Buffer, Image, Sampler, Shader, Pipeline, Blas, Tlas,
// BindSet, CommandBuffer and Semaphore.
//
// # Design principles
//
// hal prioritizes portability over safety: most methods are unsafe in
// terms of state validation, and validation is the caller's (resource,
// accel, pipeline, bind, command, gpusync package) responsibility. Only
// unrecoverable errors are returned by hal itself (out of memory, device
// lost, timeout); programming errors are surfaced as panics or via
// internal/fatal by the layer above that can tell a caller mistake from a
// driver failure.
//
// # Thread safety
//
// Unless stated otherwise, hal interfaces are not thread-safe; the
// calling layer serializes them, per spec.md's single-threaded-per-context
// model. Backend registration (RegisterBackend/GetBackend) is the
// exception and is safe for concurrent use.
package hal
