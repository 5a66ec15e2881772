package audit

// MultiAuditor wraps multiple auditors and sends audit events to all of them.
type MultiAuditor struct {
	auditors []Auditor
}

// NewMultiAuditor creates a new MultiAuditor that sends to all provided auditors.
func NewMultiAuditor(auditors ...Auditor) *MultiAuditor {
	return &MultiAuditor{auditors: auditors}
}

// AuditEvent sends the event to all wrapped auditors.
func (m *MultiAuditor) AuditEvent(ev Event) {
	for _, a := range m.auditors {
		a.AuditEvent(ev)
	}
}
