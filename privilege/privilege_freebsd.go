//go:build freebsd

package privilege

import (
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// EnsurePrivileges re-executes the current binary through sudo when it is
// not running as root. On success it does not return.
func EnsurePrivileges() error {
	if IsRoot() || alreadyEscalated() {
		return nil
	}

	sudoPath, err := exec.LookPath("sudo")
	if err != nil {
		return fmt.Errorf("sudo not found in PATH. Please run as root or install sudo: %w", err)
	}

	binaryPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	env := append(os.Environ(), escalatedEnv+"=1")
	return unix.Exec(sudoPath, sudoArgs(sudoPath, binaryPath, os.Args[1:]), env)
}
