package config

import (
	"fmt"
	"strings"

	"github.com/coder/serpent"

	"github.com/coder/jailclean/cleanup"
	"github.com/coder/jailclean/vmm"
)

// MountInfoFormat selects how mnt-info prints the mount table.
type MountInfoFormat string

const (
	// FormatRaw prints the kernel's JSON untouched.
	FormatRaw   MountInfoFormat = "raw"
	FormatTable MountInfoFormat = "table"
	FormatYAML  MountInfoFormat = "yaml"
)

func NewMountInfoFormatFromString(str string) (MountInfoFormat, error) {
	switch str {
	case "", "raw":
		return FormatRaw, nil
	case "table":
		return FormatTable, nil
	case "yaml":
		return FormatYAML, nil
	default:
		return FormatRaw, fmt.Errorf("invalid mnt-info format: %s", str)
	}
}

type CliConfig struct {
	Config            serpent.YAMLConfigPath `yaml:"-"`
	Jail              serpent.String         `yaml:"-"` // Per invocation, CLI or env only
	LogLevel          serpent.String         `yaml:"log_level"`
	LogDir            serpent.String         `yaml:"log_dir"`
	OTLPEndpoint      serpent.String         `yaml:"otlp_endpoint"`
	Escalate          serpent.Bool           `yaml:"escalate"`
	MountInfoControl  serpent.String         `yaml:"mount_info_control"`
	VMMDestroyControl serpent.String         `yaml:"vmm_destroy_control"`
}

type AppConfig struct {
	Jail              string
	LogLevel          string
	LogDir            string
	OTLPEndpoint      string
	Escalate          bool
	MountInfoControl  string
	VMMDestroyControl string
}

func NewAppConfigFromCliConfig(cfg CliConfig) (AppConfig, error) {
	jail := cfg.Jail.Value()
	if jail == "" {
		return AppConfig{}, fmt.Errorf("no jail specified, use -j <name|jid>")
	}

	logLevel := strings.ToLower(cfg.LogLevel.Value())
	switch logLevel {
	case "":
		logLevel = "warn"
	case "error", "warn", "info", "debug":
	default:
		return AppConfig{}, fmt.Errorf("invalid log level: %s", cfg.LogLevel.Value())
	}

	mntInfoControl := cfg.MountInfoControl.Value()
	if mntInfoControl == "" {
		mntInfoControl = cleanup.MountInfoControl
	}
	vmmDestroyControl := cfg.VMMDestroyControl.Value()
	if vmmDestroyControl == "" {
		vmmDestroyControl = vmm.DestroyControl
	}

	return AppConfig{
		Jail:              jail,
		LogLevel:          logLevel,
		LogDir:            cfg.LogDir.Value(),
		OTLPEndpoint:      cfg.OTLPEndpoint.Value(),
		Escalate:          cfg.Escalate.Value(),
		MountInfoControl:  mntInfoControl,
		VMMDestroyControl: vmmDestroyControl,
	}, nil
}
