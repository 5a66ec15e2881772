package mount

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

// Output shape of the jail_mntinfo kernel module.
const sampleInfo = `{"mounted":[` +
	`{"fstype":"nullfs","special":"/var/db/ocijail/rootfs","node":"/","fsid":"a1000000e9ffffff"},` +
	`{"fstype":"devfs","special":"devfs","node":"/dev","fsid":"00ff007100000000"}` +
	`]}`

func TestValidateFsid(t *testing.T) {
	require.NoError(t, ValidateFsid("FSID:161:-23"))
	require.NoError(t, ValidateFsid("some opaque \xff token"))

	require.ErrorIs(t, ValidateFsid(""), ErrInvalidFsid)
	require.ErrorIs(t, ValidateFsid("FSID:1\x00:2"), ErrInvalidFsid)
}

func TestUnmountByFsidRejectsNul(t *testing.T) {
	err := UnmountByFsid("FSID:\x001:2")
	require.ErrorIs(t, err, ErrInvalidFsid)
}

func TestParseHexFsid(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Fsid
		handle  string
		wantErr bool
	}{
		{
			name:   "little endian pair",
			in:     "a1000000e9ffffff",
			want:   Fsid{Val0: 161, Val1: -23},
			handle: "FSID:161:-23",
		},
		{
			name:   "high bytes",
			in:     "00ff007100000000",
			want:   Fsid{Val0: 0x7100ff00, Val1: 0},
			handle: "FSID:1895890688:0",
		},
		{name: "too short", in: "a10000", wantErr: true},
		{name: "not hex", in: "zz000000e9ffffff", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHexFsid(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidFsid)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.handle, got.Handle())
		})
	}
}

func TestParseInfo(t *testing.T) {
	info, err := ParseInfo([]byte(sampleInfo))
	require.NoError(t, err)
	require.Len(t, info.Mounted, 2)

	root := info.Mounted[0]
	require.Equal(t, "nullfs", root.FsType)
	require.Equal(t, "/", root.Node)
	require.Equal(t, "FSID:161:-23", root.Handle())

	require.Equal(t, "", Entry{Node: "/tmp"}.Handle())
	require.Equal(t, "", Entry{Fsid: "bogus"}.Handle())

	_, err = ParseInfo([]byte(`{"mounted":`))
	require.Error(t, err)
}

func TestUnmountError(t *testing.T) {
	err := &UnmountError{Fsid: "FSID:1:2", Errno: syscall.ENOENT}
	require.Contains(t, err.Error(), "error code 2")
	require.ErrorIs(t, err, syscall.ENOENT)
}

func TestFsidFlag(t *testing.T) {
	var f FsidFlag
	_, ok := f.Fsid()
	require.False(t, ok)
	require.Equal(t, "hex-fsid", f.Type())

	require.Error(t, f.Set("nope"))
	require.NoError(t, f.Set("a1000000e9ffffff"))

	fsid, ok := f.Fsid()
	require.True(t, ok)
	require.Equal(t, "FSID:161:-23", fsid.Handle())
	require.Equal(t, "a1000000e9ffffff", f.String())
}
