package mount

import "github.com/spf13/pflag"

var _ pflag.Value = (*FsidFlag)(nil)

// FsidFlag is a flag value holding a jail_mntinfo hex fsid. It is
// validated when set, so bad input fails during flag parsing.
type FsidFlag struct {
	raw  string
	fsid Fsid
	set  bool
}

func (f *FsidFlag) String() string {
	return f.raw
}

func (f *FsidFlag) Set(s string) error {
	fsid, err := ParseHexFsid(s)
	if err != nil {
		return err
	}
	f.raw, f.fsid, f.set = s, fsid, true
	return nil
}

func (*FsidFlag) Type() string {
	return "hex-fsid"
}

// Fsid returns the parsed value and whether the flag was set.
func (f *FsidFlag) Fsid() (Fsid, bool) {
	return f.fsid, f.set
}
