//go:build freebsd

package mount

import (
	"errors"

	"golang.org/x/sys/unix"
)

const byFsidForce = unix.MNT_BYFSID | unix.MNT_FORCE

func unmountByFsid(fsid string) error {
	err := unix.Unmount(fsid, byFsidForce)
	if err == nil {
		return nil
	}
	var errno unix.Errno
	if errors.As(err, &errno) {
		return &UnmountError{Fsid: fsid, Errno: errno}
	}
	return err
}
