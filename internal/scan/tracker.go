package scan

import (
	"fmt"

	"go.uber.org/zap"
)

// Tracker counts the recoverable failures of one scan. Results are incomplete
// when PermissionDenied is nonzero.
type Tracker struct {
	Processes        int
	PermissionDenied int
	Vanished         int
	IOErrors         int
	ParseErrors      int
}

// LogSummary emits a single warning when permission failures occurred.
// privileged suppresses the hint to re-run as root.
func (t *Tracker) LogSummary(log *zap.Logger, privileged bool) {
	if t.PermissionDenied == 0 {
		return
	}
	msg := fmt.Sprintf("%d permission errors encountered, results may be incomplete", t.PermissionDenied)
	if !privileged {
		msg += "; re-run as root to inspect all processes"
	}
	log.Warn(msg, zap.Int("permission_errors", t.PermissionDenied))
}
