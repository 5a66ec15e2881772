package privilege

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSudoArgs(t *testing.T) {
	argv := sudoArgs("/usr/local/bin/sudo", "/usr/local/bin/jailclean",
		[]string{"-j", "build", "unmount", "--fsid", "FSID:1:2"})
	require.Equal(t, []string{
		"/usr/local/bin/sudo", "-E", "/usr/local/bin/jailclean",
		"-j", "build", "unmount", "--fsid", "FSID:1:2",
	}, argv)
}

func TestAlreadyEscalated(t *testing.T) {
	t.Setenv(escalatedEnv, "1")
	require.True(t, alreadyEscalated())

	t.Setenv(escalatedEnv, "")
	require.False(t, alreadyEscalated())
}
