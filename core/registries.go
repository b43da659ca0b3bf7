package core

// Per-entity registry constructors, one per spec.md §3 entity kind. A
// caller outside this package can already write
// core.Registry[hal.Buffer, core.BufferMarker] directly since the marker
// types are exported; these wrappers just save every call site from
// repeating the marker type name.

// NewBufferRegistry creates a registry for Buffer resources.
func NewBufferRegistry[T any]() *Registry[T, BufferMarker] { return NewRegistry[T, BufferMarker]() }

// NewImageRegistry creates a registry for Image resources.
func NewImageRegistry[T any]() *Registry[T, ImageMarker] { return NewRegistry[T, ImageMarker]() }

// NewSamplerRegistry creates a registry for Sampler resources.
func NewSamplerRegistry[T any]() *Registry[T, SamplerMarker] {
	return NewRegistry[T, SamplerMarker]()
}

// NewShaderRegistry creates a registry for Shader resources.
func NewShaderRegistry[T any]() *Registry[T, ShaderMarker] { return NewRegistry[T, ShaderMarker]() }

// NewPipelineRegistry creates a registry for Pipeline resources.
func NewPipelineRegistry[T any]() *Registry[T, PipelineMarker] {
	return NewRegistry[T, PipelineMarker]()
}

// NewBlasRegistry creates a registry for BLAS resources.
func NewBlasRegistry[T any]() *Registry[T, BlasMarker] { return NewRegistry[T, BlasMarker]() }

// NewTlasRegistry creates a registry for TLAS resources.
func NewTlasRegistry[T any]() *Registry[T, TlasMarker] { return NewRegistry[T, TlasMarker]() }

// NewBindSetRegistry creates a registry for BindSet resources.
func NewBindSetRegistry[T any]() *Registry[T, BindSetMarker] {
	return NewRegistry[T, BindSetMarker]()
}

// NewCommandBufferRegistry creates a registry for CommandBuffer resources.
func NewCommandBufferRegistry[T any]() *Registry[T, CommandBufferMarker] {
	return NewRegistry[T, CommandBufferMarker]()
}

// NewSemaphoreRegistry creates a registry for Semaphore resources.
func NewSemaphoreRegistry[T any]() *Registry[T, SemaphoreMarker] {
	return NewRegistry[T, SemaphoreMarker]()
}
