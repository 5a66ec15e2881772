// Package cleanup attaches to a jail and reclaims resources the jail
// left behind: forced unmounts by fsid and VMM destruction.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/coder/jailclean/audit"
	"github.com/coder/jailclean/jail"
	"github.com/coder/jailclean/mount"
	"github.com/coder/jailclean/sysctl"
	"github.com/coder/jailclean/vmm"
)

// MountInfoControl is the control entry published by the jail_mntinfo
// kernel module.
const MountInfoControl = "security.jail.mntinfojson"

// Op names a cleanup action.
type Op string

const (
	OpAttach     Op = "attach"
	OpMountInfo  Op = "mnt-info"
	OpUnmount    Op = "unmount"
	OpDestroyVMM Op = "destroy-vmm"
)

type Config struct {
	Platform     Platform
	Auditor      audit.Auditor
	Logger       *slog.Logger
	InvocationID string

	// Control entry names, defaulting to MountInfoControl and
	// vmm.DestroyControl.
	MountInfoControl  string
	VMMDestroyControl string
}

// Cleaner performs one attach-then-act sequence. It is not safe for
// concurrent use; attaching changes the whole process.
type Cleaner struct {
	platform     Platform
	auditor      audit.Auditor
	logger       *slog.Logger
	invocationID string
	mntInfoOID   string
	vmmOID       string

	attached *jail.Jail
}

func New(config Config) *Cleaner {
	c := &Cleaner{
		platform:     config.Platform,
		auditor:      config.Auditor,
		logger:       config.Logger,
		invocationID: config.InvocationID,
		mntInfoOID:   config.MountInfoControl,
		vmmOID:       config.VMMDestroyControl,
	}
	if c.platform == nil {
		c.platform = Host()
	}
	if c.auditor == nil {
		c.auditor = audit.NewMultiAuditor()
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if c.mntInfoOID == "" {
		c.mntInfoOID = MountInfoControl
	}
	if c.vmmOID == "" {
		c.vmmOID = vmm.DestroyControl
	}
	return c
}

// Attach resolves id to a running jail and moves the process into it.
func (c *Cleaner) Attach(_ context.Context, id string) (jail.Jail, error) {
	j, err := c.attach(id)
	c.audit(OpAttach, id, "", err)
	return j, err
}

func (c *Cleaner) attach(id string) (jail.Jail, error) {
	if c.attached != nil {
		if c.attached.ID == id {
			return *c.attached, nil
		}
		return jail.Jail{}, fmt.Errorf("%w: already attached to %s", ErrAttachFailed, c.attached)
	}

	j, err := c.platform.LookupJail(id)
	if err != nil {
		switch {
		case errors.Is(err, jail.ErrInvalidIdentifier):
			return jail.Jail{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		case errors.Is(err, jail.ErrNotFound):
			return jail.Jail{}, fmt.Errorf("%w: %q: %w", ErrNotFound, id, err)
		default:
			return jail.Jail{}, fmt.Errorf("%w: lookup %q: %w", ErrAttachFailed, id, err)
		}
	}

	c.logger.Debug("attaching to jail", "jail", j.ID, "jid", j.JID)
	if err := c.platform.AttachJail(j); err != nil {
		return jail.Jail{}, fmt.Errorf("%w %s: %w", ErrAttachFailed, j, err)
	}
	c.attached = &j
	return j, nil
}

// MountInfo returns the mount table JSON of the attached jail exactly as
// the kernel reports it.
func (c *Cleaner) MountInfo(_ context.Context) (string, error) {
	if c.attached == nil {
		return "", ErrNotAttached
	}
	out, err := c.platform.ReadControl(c.mntInfoOID)
	if err != nil {
		err = fmt.Errorf("%w %s: %w", ErrControlReadFailed, c.mntInfoOID, err)
	}
	c.audit(OpMountInfo, c.attached.ID, "", err)
	return out, err
}

// Unmount forcibly unmounts the filesystem identified by fsid inside the
// attached jail. It is never retried.
func (c *Cleaner) Unmount(_ context.Context, fsid string) error {
	if c.attached == nil {
		return ErrNotAttached
	}
	err := c.unmount(fsid)
	c.audit(OpUnmount, c.attached.ID, fsid, err)
	return err
}

func (c *Cleaner) unmount(fsid string) error {
	if err := mount.ValidateFsid(fsid); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	c.logger.Debug("unmounting", "fsid", fsid)
	if err := c.platform.UnmountByFsid(fsid); err != nil {
		if errors.Is(err, mount.ErrInvalidFsid) {
			return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
		return fmt.Errorf("%w: %w", ErrUnmountFailed, err)
	}
	return nil
}

// DestroyVMM requests destruction of the named VMM from inside the
// attached jail.
func (c *Cleaner) DestroyVMM(_ context.Context, name string) error {
	if c.attached == nil {
		return ErrNotAttached
	}
	err := c.destroyVMM(name)
	c.audit(OpDestroyVMM, c.attached.ID, name, err)
	return err
}

func (c *Cleaner) destroyVMM(name string) error {
	if err := vmm.ValidateName(name); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	c.logger.Debug("destroying vmm", "name", name, "control", c.vmmOID)
	err := vmm.Destroy(controlWriter{c.platform}, c.vmmOID, name)
	if err == nil {
		return nil
	}
	if errors.Is(err, sysctl.ErrInvalidName) || errors.Is(err, sysctl.ErrInvalidValue) {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return fmt.Errorf("%w %s: %w", ErrControlWriteFailed, c.vmmOID, err)
}

func (c *Cleaner) audit(op Op, jailID, target string, err error) {
	ev := audit.Event{
		InvocationID: c.invocationID,
		Time:         time.Now(),
		Op:           string(op),
		Jail:         jailID,
		Target:       target,
		Succeeded:    err == nil,
	}
	if err != nil {
		ev.Error = err.Error()
	}
	c.auditor.AuditEvent(ev)
}

type controlWriter struct {
	p Platform
}

func (w controlWriter) WriteString(name, value string) error {
	return w.p.WriteControl(name, value)
}
