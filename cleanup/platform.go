package cleanup

import (
	"github.com/coder/jailclean/jail"
	"github.com/coder/jailclean/mount"
	"github.com/coder/jailclean/sysctl"
)

// Platform is the set of kernel facilities the cleaner drives. Each
// method maps onto one system call.
type Platform interface {
	LookupJail(id string) (jail.Jail, error)
	AttachJail(j jail.Jail) error
	ReadControl(name string) (string, error)
	WriteControl(name, value string) error
	UnmountByFsid(fsid string) error
}

type host struct {
	jails   jail.Host
	sysctls sysctl.Host
}

// Host returns the Platform backed by the running kernel.
func Host() Platform {
	return host{}
}

func (h host) LookupJail(id string) (jail.Jail, error) {
	return h.jails.Lookup(id)
}

func (h host) AttachJail(j jail.Jail) error {
	return h.jails.Attach(j)
}

func (h host) ReadControl(name string) (string, error) {
	return h.sysctls.ReadString(name)
}

func (h host) WriteControl(name, value string) error {
	return h.sysctls.WriteString(name, value)
}

func (host) UnmountByFsid(fsid string) error {
	return mount.UnmountByFsid(fsid)
}
