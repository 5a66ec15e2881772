// Package jail resolves running FreeBSD jails and attaches the current
// process to them.
package jail

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNotFound is returned when no running jail matches an identifier.
	ErrNotFound = errors.New("jail not found")
	// ErrAttachFailed is returned when the kernel refuses jail_attach.
	ErrAttachFailed = errors.New("jail attach failed")
	// ErrInvalidIdentifier is returned for identifiers that can never name a jail.
	ErrInvalidIdentifier = errors.New("invalid jail identifier")
	// ErrUnsupported is returned on platforms without jails.
	ErrUnsupported = errors.New("jails are only supported on FreeBSD")
)

// Jail identifies a running jail.
type Jail struct {
	// ID is the jail identifier supplied by the caller.
	ID string
	// JID is the kernel jail id.
	JID int
}

func (j Jail) String() string {
	if j.ID == strconv.Itoa(j.JID) {
		return j.ID
	}
	return fmt.Sprintf("%s (jid %d)", j.ID, j.JID)
}

// Attacher is implemented by the platform jail binding.
type Attacher interface {
	Lookup(id string) (Jail, error)
	Attach(j Jail) error
}

// validateIdentifier rejects identifiers jail_get(2) can not take as a
// parameter value.
func validateIdentifier(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty identifier", ErrInvalidIdentifier)
	}
	if strings.IndexByte(id, 0) >= 0 {
		return fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidIdentifier, id)
	}
	return nil
}

// parseJID returns the numeric jail id if id is a decimal jid.
func parseJID(id string) (int, bool) {
	jid, err := strconv.Atoi(id)
	if err != nil || jid <= 0 {
		return 0, false
	}
	return jid, true
}
