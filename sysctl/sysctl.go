// Package sysctl reads and writes string-valued kernel control entries.
package sysctl

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidName  = errors.New("invalid sysctl name")
	ErrInvalidValue = errors.New("invalid sysctl value")
	ErrUnsupported  = errors.New("sysctl by name is only supported on FreeBSD")
)

// Host reads and writes sysctl values of the running kernel. After
// jail_attach the values are those visible from inside the jail.
type Host struct{}

// ReadString returns the string value of the named entry.
func (Host) ReadString(name string) (string, error) {
	if err := validate(name, ""); err != nil {
		return "", err
	}
	return readString(name)
}

// WriteString sets the named entry to value.
func (Host) WriteString(name, value string) error {
	if err := validate(name, value); err != nil {
		return err
	}
	return writeString(name, value)
}

func validate(name, value string) error {
	if name == "" || strings.IndexByte(name, 0) >= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if strings.IndexByte(value, 0) >= 0 {
		return fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidValue, value)
	}
	return nil
}
