package cli

import (
	"errors"

	"github.com/coder/serpent"

	"github.com/coder/jailclean/app"
	"github.com/coder/jailclean/cleanup"
	"github.com/coder/jailclean/config"
	"github.com/coder/jailclean/mount"
	"github.com/coder/jailclean/vmm"
)

// NewCommand creates and returns the root serpent command
func NewCommand() *serpent.Command {
	return newCommand(nil)
}

// newCommand builds the command tree on top of platform; nil selects the
// running kernel.
func newCommand(platform cleanup.Platform) *serpent.Command {
	var cliConfig config.CliConfig

	run := func(inv *serpent.Invocation, action app.Action) error {
		appConfig, err := config.NewAppConfigFromCliConfig(cliConfig)
		if err != nil {
			return err
		}
		return app.Run(inv.Context(), appConfig, action, app.Options{
			Platform: platform,
			Stdout:   inv.Stdout,
		})
	}

	return &serpent.Command{
		Use:   "jailclean -j <jail> <subcommand>",
		Short: "Reclaim mounts and VMMs left behind in a FreeBSD jail",
		Long: `jailclean attaches to a running jail and releases resources the container
runtime failed to clean up. Each invocation performs exactly one action and
exits non-zero if anything fails; retry policy belongs to the caller.

Examples:
  # Show the jail's mount table (requires the jail_mntinfo kernel module)
  jailclean -j build-42 mnt-info

  # Force unmount a filesystem by fsid, busy or not
  jailclean -j build-42 unmount --fsid FSID:161:-23

  # Destroy a bhyve VM created inside the jail
  jailclean -j build-42 destroy-vmm --name build-vm`,
		Options: serpent.OptionSet{
			{
				Flag:        "config",
				Env:         "JAILCLEAN_CONFIG",
				Description: "Path to YAML config file.",
				Value:       &cliConfig.Config,
			},
			{
				Flag:          "jail",
				FlagShorthand: "j",
				Env:           "JAILCLEAN_JAIL",
				Description:   "Name or jid of the running jail to attach to.",
				Value:         &cliConfig.Jail,
			},
			{
				Flag:        "log-level",
				Env:         "JAILCLEAN_LOG_LEVEL",
				Description: "Set log level (error, warn, info, debug).",
				Default:     "warn",
				Value:       &cliConfig.LogLevel,
				YAML:        "log_level",
			},
			{
				Flag:        "log-dir",
				Env:         "JAILCLEAN_LOG_DIR",
				Description: "Write logs to a file in this directory instead of stderr.",
				Value:       &cliConfig.LogDir,
				YAML:        "log_dir",
			},
			{
				Flag:        "otlp-endpoint",
				Env:         "JAILCLEAN_OTLP_ENDPOINT",
				Description: "OTLP/HTTP logs endpoint URL to export audit events to.",
				Value:       &cliConfig.OTLPEndpoint,
				YAML:        "otlp_endpoint",
			},
			{
				Flag:        "escalate",
				Env:         "JAILCLEAN_ESCALATE",
				Description: "Re-execute through sudo when not running as root.",
				Value:       &cliConfig.Escalate,
				YAML:        "escalate",
			},
			{
				Flag:        "mount-info-control",
				Env:         "JAILCLEAN_MOUNT_INFO_CONTROL",
				Description: "Kernel control entry holding the mount table JSON.",
				Default:     cleanup.MountInfoControl,
				Value:       &cliConfig.MountInfoControl,
				YAML:        "mount_info_control",
			},
			{
				Flag:        "vmm-destroy-control",
				Env:         "JAILCLEAN_VMM_DESTROY_CONTROL",
				Description: "Kernel control entry that destroys the VM named by the written value.",
				Default:     vmm.DestroyControl,
				Value:       &cliConfig.VMMDestroyControl,
				YAML:        "vmm_destroy_control",
			},
		},
		Handler: func(inv *serpent.Invocation) error {
			return errors.New("no subcommand specified, use mnt-info, unmount or destroy-vmm")
		},
		Children: []*serpent.Command{
			mntInfoCommand(run),
			unmountCommand(run),
			destroyVMMCommand(run),
		},
	}
}

type runFunc func(inv *serpent.Invocation, action app.Action) error

func mntInfoCommand(run runFunc) *serpent.Command {
	var format string

	return &serpent.Command{
		Use:        "mnt-info",
		Short:      "Print the jail's mount table as reported by the kernel",
		Middleware: serpent.RequireNArgs(0),
		Options: serpent.OptionSet{
			{
				Flag:        "format",
				Description: "Output format: raw (kernel JSON, untouched), table or yaml.",
				Default:     string(config.FormatRaw),
				Value:       serpent.EnumOf(&format, string(config.FormatRaw), string(config.FormatTable), string(config.FormatYAML)),
			},
		},
		Handler: func(inv *serpent.Invocation) error {
			f, err := config.NewMountInfoFormatFromString(format)
			if err != nil {
				return err
			}
			return run(inv, app.Action{Op: cleanup.OpMountInfo, Format: f})
		},
	}
}

func unmountCommand(run runFunc) *serpent.Command {
	var (
		fsid    string
		hexFsid mount.FsidFlag
	)

	return &serpent.Command{
		Use:        "unmount",
		Short:      "Force unmount a filesystem by fsid",
		Long:       "Force unmount a filesystem by fsid, even if busy. The mount point path is never used.",
		Middleware: serpent.RequireNArgs(0),
		Options: serpent.OptionSet{
			{
				Flag:        "fsid",
				Description: `Filesystem id handle passed to unmount(2) as is, e.g. "FSID:161:-23".`,
				Value:       serpent.StringOf(&fsid),
			},
			{
				Flag:        "mntinfo-fsid",
				Description: "Filesystem id in the 16 hex digit form printed by mnt-info.",
				Value:       &hexFsid,
			},
		},
		Handler: func(inv *serpent.Invocation) error {
			handle, err := unmountHandle(fsid, &hexFsid)
			if err != nil {
				return err
			}
			return run(inv, app.Action{Op: cleanup.OpUnmount, Fsid: handle})
		},
	}
}

func unmountHandle(fsid string, hexFsid *mount.FsidFlag) (string, error) {
	parsed, isHex := hexFsid.Fsid()
	switch {
	case fsid != "" && isHex:
		return "", errors.New("--fsid and --mntinfo-fsid are mutually exclusive")
	case isHex:
		return parsed.Handle(), nil
	case fsid == "":
		return "", errors.New("one of --fsid or --mntinfo-fsid is required")
	default:
		return fsid, nil
	}
}

func destroyVMMCommand(run runFunc) *serpent.Command {
	var name string

	return &serpent.Command{
		Use:        "destroy-vmm",
		Short:      "Destroy a named bhyve VM",
		Middleware: serpent.RequireNArgs(0),
		Options: serpent.OptionSet{
			{
				Flag:        "name",
				Description: "Name of the VM to destroy.",
				Required:    true,
				Value:       serpent.StringOf(&name),
			},
		},
		Handler: func(inv *serpent.Invocation) error {
			return run(inv, app.Action{Op: cleanup.OpDestroyVMM, VMMName: name})
		},
	}
}
