// Package cleanuptest provides an in-memory cleanup.Platform for tests.
package cleanuptest

import (
	"strconv"
	"sync"
	"syscall"

	"github.com/coder/jailclean/jail"
	"github.com/coder/jailclean/mount"
)

// Platform is a fake kernel with running jails, each owning mounts, VMs
// and control entries. Mount, VM and control calls act on the attached
// jail and fail with EPERM before attaching.
type Platform struct {
	mu sync.Mutex

	// Jails maps identifiers (names and jids) to jids.
	Jails map[string]int
	// Mounts holds the mounted fsid handles per jid.
	Mounts map[int]map[string]bool
	// VMs holds the VM names per jid.
	VMs map[int]map[string]bool
	// Controls holds readable control entries per jid.
	Controls map[int]map[string]string
	// DestroyControl is the entry that destroys VMs on write.
	DestroyControl string
	// AttachErr is returned by AttachJail when set.
	AttachErr error

	attached int
	calls    []string
}

// New returns a Platform with no jails.
func New() *Platform {
	return &Platform{
		Jails:          map[string]int{},
		Mounts:         map[int]map[string]bool{},
		VMs:            map[int]map[string]bool{},
		Controls:       map[int]map[string]string{},
		DestroyControl: "hw.vmm.destroy",
	}
}

// AddJail registers a running jail reachable by name and by its jid.
func (p *Platform) AddJail(name string, jid int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Jails[name] = jid
	p.Jails[strconv.Itoa(jid)] = jid
	p.Mounts[jid] = map[string]bool{}
	p.VMs[jid] = map[string]bool{}
	p.Controls[jid] = map[string]string{}
}

// Calls returns the platform methods invoked so far.
func (p *Platform) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

// Attached returns the jid the process is attached to, or 0.
func (p *Platform) Attached() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attached
}

func (p *Platform) LookupJail(id string) (jail.Jail, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "LookupJail")
	if id == "" {
		return jail.Jail{}, jail.ErrInvalidIdentifier
	}
	jid, ok := p.Jails[id]
	if !ok {
		return jail.Jail{}, jail.ErrNotFound
	}
	return jail.Jail{ID: id, JID: jid}, nil
}

func (p *Platform) AttachJail(j jail.Jail) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "AttachJail")
	if p.AttachErr != nil {
		return p.AttachErr
	}
	p.attached = j.JID
	return nil
}

func (p *Platform) ReadControl(name string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "ReadControl")
	if p.attached == 0 {
		return "", syscall.EPERM
	}
	v, ok := p.Controls[p.attached][name]
	if !ok {
		return "", syscall.ENOENT
	}
	return v, nil
}

func (p *Platform) WriteControl(name, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "WriteControl")
	if p.attached == 0 {
		return syscall.EPERM
	}
	if name != p.DestroyControl {
		return syscall.ENOENT
	}
	if !p.VMs[p.attached][value] {
		return syscall.EINVAL
	}
	delete(p.VMs[p.attached], value)
	return nil
}

func (p *Platform) UnmountByFsid(fsid string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "UnmountByFsid")
	if err := mount.ValidateFsid(fsid); err != nil {
		return err
	}
	if p.attached == 0 {
		return &mount.UnmountError{Fsid: fsid, Errno: syscall.EPERM}
	}
	if !p.Mounts[p.attached][fsid] {
		return &mount.UnmountError{Fsid: fsid, Errno: syscall.ENOENT}
	}
	delete(p.Mounts[p.attached], fsid)
	return nil
}
