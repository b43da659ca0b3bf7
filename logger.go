package cgpu

import (
	"log/slog"
	"os"

	"github.com/pablode/cgpu/internal/fatal"
)

// logger receives warnings the public API emits outside the fatal path,
// most notably Terminate's leaked-handle report.
var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// SetLogger overrides the logger used by this package and by
// internal/fatal's abort path, so every log line in the process goes
// through one sink. Passing nil restores the default stderr logger.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	logger = l
	fatal.SetLogger(l)
}

func warnLeak(kind string) {
	logger.Warn("terminate: destroying leaked resource", "kind", kind)
}
