// Package accel implements cgpu's Acceleration Structure Builder: the
// shared BLAS/TLAS build algorithm from spec.md §4.5, layered over a
// hal.Device, a resource.Manager for scratch allocation, and a
// hal.Semaphore for the one-shot build's internal synchronization.
//
// Both build kinds follow the same five steps: query build sizes, create
// a backing buffer and AS object on it, allocate scratch from the
// dedicated AS-scratch pool, record and submit a one-shot command
// buffer, then wait on an internal semaphore before tearing down the
// scratch buffer, command buffer and semaphore. Failure at any step
// destroys every partial resource already created for that build before
// returning the error.
package accel
