package core

import (
	"fmt"
)

// Index is the index component of a resource ID.
// It identifies the slot in the storage array.
type Index = uint32

// Epoch is the generation component of a resource ID.
// It prevents use-after-free by invalidating old IDs.
type Epoch = uint32

// RawID is the underlying 64-bit representation of a resource identifier.
// Layout: lower 32 bits = index, upper 32 bits = epoch.
type RawID uint64

// Zip combines an index and epoch into a RawID.
func Zip(index Index, epoch Epoch) RawID {
	return RawID(index) | (RawID(epoch) << 32)
}

// Unzip extracts the index and epoch from a RawID.
func (id RawID) Unzip() (Index, Epoch) {
	//nolint:gosec // G115: Safe conversion - masked to 32 bits
	return Index(id & 0xFFFFFFFF), Epoch(id >> 32)
}

// Index returns the index component of the RawID.
func (id RawID) Index() Index {
	//nolint:gosec // G115: Safe conversion - masked to 32 bits
	return Index(id & 0xFFFFFFFF)
}

// Epoch returns the epoch component of the RawID.
func (id RawID) Epoch() Epoch {
	//nolint:gosec // G115: Safe conversion - shifted down from upper 32 bits
	return Epoch(id >> 32)
}

// IsZero returns true if both index and epoch are zero.
func (id RawID) IsZero() bool {
	return id == 0
}

// String returns a string representation of the RawID.
func (id RawID) String() string {
	index, epoch := id.Unzip()
	return fmt.Sprintf("RawID(%d,%d)", index, epoch)
}

// Marker is a constraint for marker types used to distinguish ID types.
// Marker types are empty structs that provide compile-time type safety.
type Marker interface {
	marker() // unexported method prevents external implementation
}

// ID is a type-safe resource identifier parameterized by a marker type.
// Different resource types (Device, Buffer, Texture, etc.) have different
// marker types, preventing accidental misuse of IDs.
type ID[T Marker] struct {
	raw RawID
}

// NewID creates a new ID from index and epoch components.
func NewID[T Marker](index Index, epoch Epoch) ID[T] {
	return ID[T]{raw: Zip(index, epoch)}
}

// FromRaw creates an ID from a raw representation.
// Use with caution - the caller must ensure type safety.
func FromRaw[T Marker](raw RawID) ID[T] {
	return ID[T]{raw: raw}
}

// Raw returns the underlying RawID.
func (id ID[T]) Raw() RawID {
	return id.raw
}

// Unzip extracts the index and epoch from the ID.
func (id ID[T]) Unzip() (Index, Epoch) {
	return id.raw.Unzip()
}

// Index returns the index component of the ID.
func (id ID[T]) Index() Index {
	return id.raw.Index()
}

// Epoch returns the epoch component of the ID.
func (id ID[T]) Epoch() Epoch {
	return id.raw.Epoch()
}

// IsZero returns true if the ID is zero (invalid).
func (id ID[T]) IsZero() bool {
	return id.raw.IsZero()
}

// String returns a string representation of the ID.
func (id ID[T]) String() string {
	index, epoch := id.Unzip()
	return fmt.Sprintf("ID(%d,%d)", index, epoch)
}

// Marker types for each resource kind, one per spec.md §3 entity. These are
// empty structs that implement the Marker interface; the type names are
// exported so packages outside core can name a full Registry[T, M]
// instantiation (for struct fields, e.g.), but the marker() method itself
// stays unexported, so only this package can satisfy the Marker interface.

type DeviceMarker struct{}

func (DeviceMarker) marker() {}

type BufferMarker struct{}

func (BufferMarker) marker() {}

type ImageMarker struct{}

func (ImageMarker) marker() {}

type SamplerMarker struct{}

func (SamplerMarker) marker() {}

type ShaderMarker struct{}

func (ShaderMarker) marker() {}

type PipelineMarker struct{}

func (PipelineMarker) marker() {}

type BlasMarker struct{}

func (BlasMarker) marker() {}

type TlasMarker struct{}

func (TlasMarker) marker() {}

type BindSetMarker struct{}

func (BindSetMarker) marker() {}

type CommandBufferMarker struct{}

func (CommandBufferMarker) marker() {}

type SemaphoreMarker struct{}

func (SemaphoreMarker) marker() {}

// Type aliases for resource IDs. These provide convenient, readable type
// names matching spec.md §3's entity list.

// DeviceID identifies the logical Context/Device singleton.
type DeviceID = ID[DeviceMarker]

// BufferID identifies a Buffer resource.
type BufferID = ID[BufferMarker]

// ImageID identifies an Image resource.
type ImageID = ID[ImageMarker]

// SamplerID identifies a Sampler resource.
type SamplerID = ID[SamplerMarker]

// ShaderID identifies a Shader resource.
type ShaderID = ID[ShaderMarker]

// PipelineID identifies a compute or ray-tracing Pipeline resource.
type PipelineID = ID[PipelineMarker]

// BlasID identifies a bottom-level acceleration structure.
type BlasID = ID[BlasMarker]

// TlasID identifies a top-level acceleration structure.
type TlasID = ID[TlasMarker]

// BindSetID identifies a BindSet resource.
type BindSetID = ID[BindSetMarker]

// CommandBufferID identifies a CommandBuffer resource.
type CommandBufferID = ID[CommandBufferMarker]

// SemaphoreID identifies a timeline Semaphore resource.
type SemaphoreID = ID[SemaphoreMarker]
