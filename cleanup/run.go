package cleanup

import (
	"context"
	"fmt"

	"github.com/coder/jailclean/jail"
)

// Request describes a single invocation: the jail to attach to and the
// one action to perform inside it.
type Request struct {
	Jail string
	Op   Op

	// Fsid is the unmount handle for OpUnmount.
	Fsid string
	// VMMName is the VM to destroy for OpDestroyVMM.
	VMMName string
}

// Result is the outcome of a successful Run.
type Result struct {
	Jail jail.Jail
	// MountInfo is set for OpMountInfo.
	MountInfo string
}

// Run attaches to req.Jail and performs req.Op. If attaching fails no
// action is attempted.
func (c *Cleaner) Run(ctx context.Context, req Request) (Result, error) {
	switch req.Op {
	case OpMountInfo, OpUnmount, OpDestroyVMM:
	default:
		return Result{}, fmt.Errorf("%w: unknown operation %q", ErrInvalidArgument, req.Op)
	}

	j, err := c.Attach(ctx, req.Jail)
	if err != nil {
		return Result{}, err
	}
	res := Result{Jail: j}

	switch req.Op {
	case OpMountInfo:
		res.MountInfo, err = c.MountInfo(ctx)
	case OpUnmount:
		err = c.Unmount(ctx, req.Fsid)
	case OpDestroyVMM:
		err = c.DestroyVMM(ctx, req.VMMName)
	}
	if err != nil {
		return Result{}, err
	}
	return res, nil
}
