package hal

import "github.com/pablode/cgpu/device"

// BackendKind identifies a hal backend implementation.
type BackendKind int

const (
	BackendVulkan BackendKind = iota
	BackendMetal
)

// Backend is the factory a hal/vulkan or hal/metal package registers
// from its init().
type Backend interface {
	Kind() BackendKind

	// CreateInstance creates the backend's instance, the entry point for
	// device enumeration and opening.
	CreateInstance(debug bool) (Instance, error)
}

// Instance enumerates physical devices and opens the one the device
// package selects.
type Instance interface {
	// EnumerateCandidates queries every physical device's properties,
	// features, memory heaps and queue families and scores them via
	// device.EvaluateCandidate. The caller (the root cgpu package) then
	// runs device.Select over the result.
	EnumerateCandidates() ([]device.Candidate, error)

	// Open opens the logical device for the chosen candidate.
	Open(candidate device.Candidate) (Device, error)

	Destroy()
}
