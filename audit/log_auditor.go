package audit

import "log/slog"

// LogAuditor implements Auditor by logging to slog
type LogAuditor struct {
	logger *slog.Logger
}

// NewLogAuditor creates a new LogAuditor
func NewLogAuditor(logger *slog.Logger) *LogAuditor {
	return &LogAuditor{
		logger: logger,
	}
}

// AuditEvent logs the event using structured logging. Failures are logged
// at info as well; the caller reports them on its own.
func (a *LogAuditor) AuditEvent(ev Event) {
	attrs := []any{
		"invocation", ev.InvocationID,
		"op", ev.Op,
		"jail", ev.Jail,
	}
	if ev.Target != "" {
		attrs = append(attrs, "target", ev.Target)
	}

	if ev.Succeeded {
		a.logger.Info("DONE", attrs...)
	} else {
		a.logger.Info("FAILED", append(attrs, "error", ev.Error)...)
	}
}
