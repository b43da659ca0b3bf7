// Package bind implements cgpu's Binding System: bind-set allocation
// from a pipeline's descriptor pool and the update(bindSet, bindings)
// write logic from spec.md §4.7, layered over hal.Device.
package bind
