package sysctl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	require.NoError(t, validate("hw.vmm.destroy", "vm0"))
	require.NoError(t, validate("security.jail.mntinfojson", ""))

	require.ErrorIs(t, validate("", "vm0"), ErrInvalidName)
	require.ErrorIs(t, validate("hw.vmm\x00.destroy", "vm0"), ErrInvalidName)
	require.ErrorIs(t, validate("hw.vmm.destroy", "vm\x000"), ErrInvalidValue)
}

func TestHostRejectsBeforeKernel(t *testing.T) {
	var h Host

	_, err := h.ReadString("")
	require.ErrorIs(t, err, ErrInvalidName)

	err = h.WriteString("hw.vmm.destroy", "a\x00b")
	require.ErrorIs(t, err, ErrInvalidValue)
}
