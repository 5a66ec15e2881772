//go:build freebsd

package sysctl

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

func readString(name string) (string, error) {
	v, err := unix.Sysctl(name)
	if err != nil {
		return "", fmt.Errorf("sysctlbyname(%q): error code %d: %w", name, errnoOf(err), err)
	}
	return v, nil
}

func writeString(name, value string) error {
	mib, err := nameToMIB(name)
	if err != nil {
		return fmt.Errorf("sysctlbyname(%q): error code %d: %w", name, errnoOf(err), err)
	}

	var newp unsafe.Pointer
	if value != "" {
		b := []byte(value)
		newp = unsafe.Pointer(&b[0])
	}
	_, _, errno := unix.Syscall6(unix.SYS___SYSCTL,
		uintptr(unsafe.Pointer(&mib[0])), uintptr(len(mib)),
		0, 0,
		uintptr(newp), uintptr(len(value)))
	if errno != 0 {
		return fmt.Errorf("sysctlbyname(%q=%q): error code %d: %w", name, value, int(errno), errno)
	}
	return nil
}

// nameToMIB asks the kernel to translate a dotted name into its numeric
// MIB through the {0, 3} name2oid entry.
func nameToMIB(name string) ([]int32, error) {
	var buf [unix.CTL_MAXNAME + 2]int32
	n := uintptr(unix.CTL_MAXNAME) * unsafe.Sizeof(buf[0])
	qname := []byte(name)
	query := [2]int32{0, 3}

	_, _, errno := unix.Syscall6(unix.SYS___SYSCTL,
		uintptr(unsafe.Pointer(&query[0])), uintptr(len(query)),
		uintptr(unsafe.Pointer(&buf[0])), uintptr(unsafe.Pointer(&n)),
		uintptr(unsafe.Pointer(&qname[0])), uintptr(len(qname)))
	if errno != 0 {
		return nil, errno
	}
	return buf[:n/unsafe.Sizeof(buf[0])], nil
}

func errnoOf(err error) int {
	if errno, ok := err.(unix.Errno); ok {
		return int(errno)
	}
	return -1
}
