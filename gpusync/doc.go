// Package gpusync implements cgpu's Submission & Sync (spec.md §4.9):
// timeline-semaphore creation, conjunctive waits, and command-buffer
// submission over a hal.Device. There are no binary fences in the
// public surface; every wait/signal is a (semaphore, value) pair.
package gpusync
