// Package privilege makes sure jail cleanup runs as root.
package privilege

import (
	"os"
)

// escalatedEnv marks a process that was already re-executed through sudo.
const escalatedEnv = "JAILCLEAN_PRIV_ESCALATED"

// IsRoot reports whether the effective user is root.
func IsRoot() bool {
	return os.Geteuid() == 0
}

func alreadyEscalated() bool {
	return os.Getenv(escalatedEnv) == "1"
}

// sudoArgs builds the argument vector for re-executing binary through sudo.
func sudoArgs(sudoPath, binary string, args []string) []string {
	argv := []string{sudoPath, "-E", binary}
	return append(argv, args...)
}
