// Package resource implements cgpu's Resource Manager: the buffer and
// image creation algorithms from spec.md §4.4, layered over a hal.Device
// so the alignment, memory-property-widening and priority rules apply
// identically on Vulkan and Metal.
//
// Per-image layout/access-mask tracking does not live here: each
// hal.Image implementation holds its own state, hal.Image exposes it
// read-only through Layout and AccessMask, and the backend's hal.Recorder
// updates it at barrier/copy time.
package resource
