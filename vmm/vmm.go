// Package vmm destroys bhyve virtual machine instances through the
// hypervisor's kernel control entry.
package vmm

import (
	"errors"
	"fmt"
	"strings"
)

// DestroyControl is the control entry that destroys the VM named by the
// written value.
const DestroyControl = "hw.vmm.destroy"

var ErrInvalidName = errors.New("invalid vmm name")

// ControlWriter writes string-valued kernel control entries.
type ControlWriter interface {
	WriteString(name, value string) error
}

// ValidateName rejects names the kernel can never match.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if strings.IndexByte(name, 0) >= 0 {
		return fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidName, name)
	}
	return nil
}

// Destroy asks the kernel to destroy the named VM by writing its name to
// control. It does not wait for the VM to disappear.
func Destroy(w ControlWriter, control, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if control == "" {
		control = DestroyControl
	}
	if err := w.WriteString(control, name); err != nil {
		return fmt.Errorf("destroy vmm %q: %w", name, err)
	}
	return nil
}
