//go:build !freebsd

package mount

import "fmt"

func unmountByFsid(fsid string) error {
	return fmt.Errorf("unmount %q: %w", fsid, ErrUnsupported)
}
