package app

import (
	"bytes"
	"context"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coder/jailclean/cleanup"
	"github.com/coder/jailclean/cleanup/cleanuptest"
	"github.com/coder/jailclean/config"
)

const mntInfoJSON = `{"mounted":[` +
	`{"fstype":"nullfs","special":"/var/cache/pkg","node":"/var/cache/pkg","fsid":"a1000000e9ffffff"},` +
	`{"fstype":"tmpfs","special":"tmpfs","node":"/tmp"}` +
	`]}`

func newPlatform() *cleanuptest.Platform {
	p := cleanuptest.New()
	p.AddJail("build", 7)
	p.Mounts[7]["FSID:161:-23"] = true
	p.VMs[7]["build-vm"] = true
	p.Controls[7][cleanup.MountInfoControl] = mntInfoJSON
	return p
}

func testConfig(jail string) config.AppConfig {
	return config.AppConfig{
		Jail:              jail,
		LogLevel:          "warn",
		MountInfoControl:  cleanup.MountInfoControl,
		VMMDestroyControl: "hw.vmm.destroy",
	}
}

func TestRunMountInfoRaw(t *testing.T) {
	var stdout bytes.Buffer
	p := newPlatform()

	err := Run(context.Background(), testConfig("build"), Action{Op: cleanup.OpMountInfo}, Options{Platform: p, Stdout: &stdout})
	require.NoError(t, err)
	require.Equal(t, mntInfoJSON+"\n", stdout.String())
	require.Equal(t, 7, p.Attached())
}

func TestRunMountInfoFormats(t *testing.T) {
	tests := []struct {
		format   config.MountInfoFormat
		contains []string
	}{
		{
			format:   config.FormatTable,
			contains: []string{"FSTYPE", "HANDLE", "nullfs", "FSID:161:-23", "/tmp"},
		},
		{
			format:   config.FormatYAML,
			contains: []string{"mounted:", "fstype: nullfs", "node: /var/cache/pkg", "fsid: a1000000e9ffffff"},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var stdout bytes.Buffer
			err := Run(context.Background(), testConfig("build"),
				Action{Op: cleanup.OpMountInfo, Format: tt.format},
				Options{Platform: newPlatform(), Stdout: &stdout})
			require.NoError(t, err)
			for _, s := range tt.contains {
				require.Contains(t, stdout.String(), s)
			}
		})
	}
}

func TestRunUnmountAndDestroyPrintNothing(t *testing.T) {
	var stdout bytes.Buffer
	p := newPlatform()

	err := Run(context.Background(), testConfig("build"), Action{Op: cleanup.OpUnmount, Fsid: "FSID:161:-23"}, Options{Platform: p, Stdout: &stdout})
	require.NoError(t, err)
	require.Empty(t, p.Mounts[7])

	err = Run(context.Background(), testConfig("7"), Action{Op: cleanup.OpDestroyVMM, VMMName: "build-vm"}, Options{Platform: p, Stdout: &stdout})
	require.NoError(t, err)
	require.Empty(t, p.VMs[7])

	require.Empty(t, stdout.String())
}

func TestRunMissingJail(t *testing.T) {
	var stdout bytes.Buffer
	p := newPlatform()

	err := Run(context.Background(), testConfig("ghost"), Action{Op: cleanup.OpUnmount, Fsid: "FSID:161:-23"}, Options{Platform: p, Stdout: &stdout})
	require.ErrorIs(t, err, cleanup.ErrNotFound)
	require.Equal(t, []string{"LookupJail"}, p.Calls())
	require.Len(t, p.Mounts[7], 1)
	require.Empty(t, stdout.String())
}

func TestRunAttachRefused(t *testing.T) {
	p := newPlatform()
	p.AttachErr = syscall.EPERM

	err := Run(context.Background(), testConfig("build"), Action{Op: cleanup.OpDestroyVMM, VMMName: "build-vm"}, Options{Platform: p, Stdout: &bytes.Buffer{}})
	require.ErrorIs(t, err, cleanup.ErrAttachFailed)
	require.Len(t, p.VMs[7], 1)
}

func TestRunUnmountUnknownFsid(t *testing.T) {
	err := Run(context.Background(), testConfig("build"), Action{Op: cleanup.OpUnmount, Fsid: "FSID:1:1"}, Options{Platform: newPlatform(), Stdout: &bytes.Buffer{}})
	require.ErrorIs(t, err, cleanup.ErrUnmountFailed)
	require.ErrorIs(t, err, syscall.ENOENT)
	require.Contains(t, err.Error(), "error code 2")
}

func TestRunLogDir(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig("build")
	cfg.LogDir = dir
	cfg.LogLevel = "debug"

	err := Run(context.Background(), cfg, Action{Op: cleanup.OpMountInfo}, Options{Platform: newPlatform(), Stdout: &bytes.Buffer{}})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(dir + "/" + entries[0].Name())
	require.NoError(t, err)
	require.Contains(t, string(data), "op=mnt-info")
	require.Contains(t, string(data), "DONE")
}

func TestWriteMountInfoInvalidJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeMountInfo(&out, "not json", config.FormatRaw))
	require.Equal(t, "not json\n", out.String())

	require.Error(t, writeMountInfo(&out, "not json", config.FormatTable))
}
