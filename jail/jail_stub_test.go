//go:build !freebsd

package jail

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHostUnsupported(t *testing.T) {
	var h Host

	_, err := h.Lookup("web")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, err, ErrUnsupported)

	_, err = h.Lookup("")
	require.ErrorIs(t, err, ErrInvalidIdentifier)

	err = h.Attach(Jail{ID: "web", JID: 3})
	require.ErrorIs(t, err, ErrAttachFailed)
	require.ErrorIs(t, err, ErrUnsupported)
}
