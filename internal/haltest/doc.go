// Package haltest implements a fake hal.Device for exercising the
// resource, accel, pipeline, bind, command and gpusync packages without a
// real GPU, mirroring the role the teacher's hal/noop backend plays:
// every resource kind is a cheap in-memory placeholder, buffers and
// images carry real backing byte slices so callers can read back what
// they wrote, and command recording captures the op sequence so tests
// can assert on it directly instead of against driver side effects.
//
// It is not registered as a hal.Backend: nothing outside test code ever
// needs to select it from hal.GetBackend, so construction goes straight
// through NewDevice.
package haltest
