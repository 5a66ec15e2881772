//go:build freebsd

package jail

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Host implements Attacher with jail_get(2) and jail_attach(2).
type Host struct{}

// Lookup resolves a jail name or numeric jid to a running jail.
func (Host) Lookup(id string) (Jail, error) {
	if err := validateIdentifier(id); err != nil {
		return Jail{}, err
	}

	key := "name"
	var value []byte
	if n, ok := parseJID(id); ok {
		key = "jid"
		jid := int32(n)
		value = unsafe.Slice((*byte)(unsafe.Pointer(&jid)), unsafe.Sizeof(jid))
	} else {
		value = append([]byte(id), 0)
	}

	errmsg := make([]byte, 256)
	iov := []unix.Iovec{
		iovec(append([]byte(key), 0)),
		iovec(value),
		iovec([]byte("errmsg\x00")),
		iovec(errmsg),
	}

	r1, _, errno := unix.Syscall(unix.SYS_JAIL_GET,
		uintptr(unsafe.Pointer(&iov[0])), uintptr(len(iov)), 0)
	if errno != 0 {
		if errors.Is(errno, unix.ENOENT) {
			return Jail{}, fmt.Errorf("%w: %q", ErrNotFound, id)
		}
		return Jail{}, fmt.Errorf("jail_get(%s=%q): error code %d: %w", key, id, int(errno), errno)
	}
	return Jail{ID: id, JID: int(r1)}, nil
}

// Attach moves the calling process into the jail. This can not be undone.
func (Host) Attach(j Jail) error {
	_, _, errno := unix.Syscall(unix.SYS_JAIL_ATTACH, uintptr(j.JID), 0, 0)
	if errno != 0 {
		return fmt.Errorf("%w: jail_attach(%d): error code %d: %w", ErrAttachFailed, j.JID, int(errno), errno)
	}
	return nil
}

func iovec(b []byte) unix.Iovec {
	iov := unix.Iovec{Base: &b[0]}
	iov.SetLen(len(b))
	return iov
}
