//go:build !freebsd

package sysctl

import "fmt"

func readString(name string) (string, error) {
	return "", fmt.Errorf("sysctlbyname(%q): %w", name, ErrUnsupported)
}

func writeString(name, value string) error {
	return fmt.Errorf("sysctlbyname(%q=%q): %w", name, value, ErrUnsupported)
}
