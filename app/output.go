package app

import (
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/coder/jailclean/config"
	"github.com/coder/jailclean/mount"
)

// writeMountInfo prints the mount table. The raw format is the kernel's
// string followed by a newline; the other formats decode it first.
func writeMountInfo(w io.Writer, raw string, format config.MountInfoFormat) error {
	if format == config.FormatRaw || format == "" {
		_, err := fmt.Fprintln(w, raw)
		return err
	}

	info, err := mount.ParseInfo([]byte(raw))
	if err != nil {
		return err
	}

	switch format {
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(info); err != nil {
			return fmt.Errorf("failed to encode mount info: %w", err)
		}
		return enc.Close()
	case config.FormatTable:
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "FSTYPE\tSPECIAL\tNODE\tFSID\tHANDLE")
		for _, e := range info.Mounted {
			handle := e.Handle()
			if handle == "" {
				handle = "-"
			}
			fsid := e.Fsid
			if fsid == "" {
				fsid = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.FsType, e.Special, e.Node, fsid, handle)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("invalid mnt-info format: %s", format)
	}
}
