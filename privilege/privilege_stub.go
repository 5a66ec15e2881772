//go:build !freebsd

package privilege

import (
	"fmt"
	"runtime"
)

// EnsurePrivileges is not supported outside FreeBSD.
func EnsurePrivileges() error {
	return fmt.Errorf("jailclean is only supported on FreeBSD, current platform: %s", runtime.GOOS)
}
