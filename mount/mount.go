// Package mount force-unmounts filesystems by fsid and models the mount
// table published by the jail_mntinfo kernel module.
package mount

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"syscall"
)

var (
	// ErrInvalidFsid is returned for fsids that can not be passed to the
	// kernel as a NUL-terminated string.
	ErrInvalidFsid = errors.New("invalid fsid")
	// ErrUnsupported is returned on platforms without unmount-by-fsid.
	ErrUnsupported = errors.New("unmount by fsid is only supported on FreeBSD")
)

// UnmountError is returned when the kernel rejects an unmount.
type UnmountError struct {
	Fsid  string
	Errno syscall.Errno
}

func (e *UnmountError) Error() string {
	return fmt.Sprintf("unmount %q failed with error code %d (%s)", e.Fsid, int(e.Errno), e.Errno.Error())
}

func (e *UnmountError) Unwrap() error {
	return e.Errno
}

// UnmountByFsid forcibly unmounts the filesystem identified by fsid, even
// if it is busy. The mount point path is never consulted.
func UnmountByFsid(fsid string) error {
	if err := ValidateFsid(fsid); err != nil {
		return err
	}
	return unmountByFsid(fsid)
}

// ValidateFsid checks that fsid survives conversion to a C string.
func ValidateFsid(fsid string) error {
	if fsid == "" {
		return fmt.Errorf("%w: empty fsid", ErrInvalidFsid)
	}
	if strings.IndexByte(fsid, 0) >= 0 {
		return fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidFsid, fsid)
	}
	return nil
}

// Fsid is the pair of 32 bit values the kernel uses to identify a mount.
type Fsid struct {
	Val0 int32
	Val1 int32
}

// Handle returns the "FSID:<val0>:<val1>" form understood by unmount(2)
// together with MNT_BYFSID.
func (f Fsid) Handle() string {
	return fmt.Sprintf("FSID:%d:%d", f.Val0, f.Val1)
}

// ParseHexFsid decodes the 16 hex digit fsid printed by jail_mntinfo: two
// little endian 32 bit values.
func ParseHexFsid(s string) (Fsid, error) {
	if len(s) != 16 {
		return Fsid{}, fmt.Errorf("%w: %q: want 16 hex digits", ErrInvalidFsid, s)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Fsid{}, fmt.Errorf("%w: %q: %v", ErrInvalidFsid, s, err)
	}
	le := func(p []byte) int32 {
		return int32(uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16 | uint32(p[3])<<24)
	}
	return Fsid{Val0: le(b[0:4]), Val1: le(b[4:8])}, nil
}

// Entry is a single mounted filesystem.
type Entry struct {
	FsType  string   `json:"fstype" yaml:"fstype"`
	Special string   `json:"special" yaml:"special"`
	Node    string   `json:"node" yaml:"node"`
	Opts    []string `json:"opts,omitempty" yaml:"opts,omitempty"`
	Fsid    string   `json:"fsid,omitempty" yaml:"fsid,omitempty"`
}

// Handle returns the unmount handle for the entry, or "" if the entry
// carries no parseable fsid.
func (e Entry) Handle() string {
	if e.Fsid == "" {
		return ""
	}
	f, err := ParseHexFsid(e.Fsid)
	if err != nil {
		return ""
	}
	return f.Handle()
}

// Info is the mount table document.
type Info struct {
	Mounted []Entry `json:"mounted" yaml:"mounted"`
}

// ParseInfo decodes a mount table document.
func ParseInfo(data []byte) (Info, error) {
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return Info{}, fmt.Errorf("failed to parse mount info: %w", err)
	}
	return info, nil
}
