package audit

import "time"

// Event records one cleanup action and its outcome.
type Event struct {
	InvocationID string
	Time         time.Time
	Op           string // mnt-info, unmount, destroy-vmm or attach
	Jail         string
	Target       string // fsid or vmm name, empty for mnt-info
	Succeeded    bool
	Error        string
}

// Auditor records cleanup actions.
type Auditor interface {
	AuditEvent(ev Event)
}
