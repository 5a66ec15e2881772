//go:build !freebsd

package jail

import "fmt"

// Host is a stub for platforms without jails.
type Host struct{}

func (Host) Lookup(id string) (Jail, error) {
	if err := validateIdentifier(id); err != nil {
		return Jail{}, err
	}
	return Jail{}, fmt.Errorf("%w: %q: %w", ErrNotFound, id, ErrUnsupported)
}

func (Host) Attach(j Jail) error {
	return fmt.Errorf("%w: %s: %w", ErrAttachFailed, j, ErrUnsupported)
}
