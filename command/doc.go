// Package command implements cgpu's Command Recorder (spec.md §4.8): a
// thin layer above hal.Recorder that tracks the currently bound pipeline
// (so push-constant and trace-rays calls don't need it passed in again),
// enforces the size-multiple-of-4 and 32-in-flight-timestamp invariants,
// and resolves the whole-resource sentinel for buffer copies and fills
// before the call reaches hal.
//
// Layout transitions for shader images and buffer-to-image copies are
// already handled inside the hal.Recorder implementations themselves
// (see hal.Recorder's TransitionShaderImages and CopyBufferToImage doc
// comments), so this package passes those two calls straight through.
package command
