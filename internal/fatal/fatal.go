// Package fatal centralizes the abort path for programming-error and
// device-loss conditions that the public API treats as unrecoverable.
//
// The rest of cgpu returns errors for anything an application can sensibly
// react to (allocation failure, timeout, missing GPU feature). A smaller set
// of conditions — an invalid handle, an over-limit request, a failed driver
// call that leaves a pipeline or descriptor pool half-built — are treated as
// contract violations the runtime cannot safely unwind from. Those go
// through Abort instead of being wrapped into an error return.
package fatal

import (
	"fmt"
	"log/slog"
	"os"
)

// exitFunc is swapped out in tests so Abort can be exercised without
// terminating the test binary.
var exitFunc = os.Exit

// logger is set by the cgpu root package's SetLogger so fatal messages go
// through the same sink as everything else.
var logger *slog.Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// SetLogger overrides the logger used to report fatal conditions before
// exiting. Passing nil restores the default stderr logger — fatal
// conditions are never silenced, unlike ordinary log output.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	logger = l
}

// Abort logs msg at Error level and terminates the process. Callers use this
// for conditions the API contract defines as programming errors: invalid
// handles, over-limit requests (>4 descriptor sets, >32 timestamp queries,
// a 25-bit instance custom index), and driver-level failures during
// pipeline/descriptor/command-submission creation.
func Abort(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Error(msg)
	exitFunc(1)
}

// WithTestExit replaces the exit function for the duration of a test and
// returns a restore function. Intended for use from _test.go files only.
func WithTestExit(fn func(int)) (restore func()) {
	prev := exitFunc
	exitFunc = fn
	return func() { exitFunc = prev }
}
