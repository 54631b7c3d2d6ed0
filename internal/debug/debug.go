package debug

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Output goes to the process-wide zap logger (zap.S), so binaries control
// where it lands with zap.ReplaceGlobals. The default global logger discards
// everything.

// DebugHeader prints debug header if debugging is enabled
func DebugHeader(enabled bool) {
	if enabled {
		zap.S().Debug("=== DEBUG START ===")
	}
}

// DebugFooter prints debug footer if debugging is enabled
func DebugFooter(enabled bool) {
	if enabled {
		zap.S().Debug("=== DEBUG END ===")
	}
}

// DebugOutput prints debug output if debugging is enabled
func DebugOutput(enabled bool, format string, args ...interface{}) {
	if enabled {
		zap.S().Debug(fmt.Sprintf(format, args...))
	}
}

// DebugTiming measures and logs execution time if debugging is enabled
func DebugTiming(enabled bool, operation string) func() {
	if !enabled {
		return func() {}
	}

	start := time.Now()
	zap.S().Debugw("starting", "operation", operation)

	return func() {
		zap.S().Debugw("completed", "operation", operation, "took", time.Since(start))
	}
}
