package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/coder/jailclean/audit"
	"github.com/coder/jailclean/cleanup"
	"github.com/coder/jailclean/config"
	"github.com/coder/jailclean/privilege"
)

// Action is the single operation requested on the command line.
type Action struct {
	Op      cleanup.Op
	Fsid    string
	VMMName string
	Format  config.MountInfoFormat
}

// Options carries the dependencies of Run. Zero values select the host
// platform and the process stdout.
type Options struct {
	Platform cleanup.Platform
	Stdout   io.Writer
}

// Run attaches to the configured jail and performs action.
func Run(ctx context.Context, cfg config.AppConfig, action Action, opts Options) error {
	logger, closeLog, err := setupLogging(cfg)
	if err != nil {
		return fmt.Errorf("could not set up logging: %v", err)
	}
	defer closeLog()

	if opts.Platform == nil {
		opts.Platform = cleanup.Host()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	if cfg.Escalate {
		if err := privilege.EnsurePrivileges(); err != nil {
			return fmt.Errorf("failed to acquire privileges: %w", err)
		}
	} else if !privilege.IsRoot() {
		logger.Debug("Not running as root, the kernel may refuse jail_attach")
	}

	invocationID := uuid.NewString()
	auditor, closeAuditor, err := newAuditor(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer closeAuditor()

	cleaner := cleanup.New(cleanup.Config{
		Platform:          opts.Platform,
		Auditor:           auditor,
		Logger:            logger,
		InvocationID:      invocationID,
		MountInfoControl:  cfg.MountInfoControl,
		VMMDestroyControl: cfg.VMMDestroyControl,
	})

	logger.Debug("Running cleanup action",
		"invocation", invocationID,
		"jail", cfg.Jail,
		"op", action.Op)

	res, err := cleaner.Run(ctx, cleanup.Request{
		Jail:    cfg.Jail,
		Op:      action.Op,
		Fsid:    action.Fsid,
		VMMName: action.VMMName,
	})
	if err != nil {
		return err
	}

	if action.Op == cleanup.OpMountInfo {
		return writeMountInfo(opts.Stdout, res.MountInfo, action.Format)
	}
	return nil
}

func newAuditor(ctx context.Context, logger *slog.Logger, cfg config.AppConfig) (audit.Auditor, func(), error) {
	logAuditor := audit.NewLogAuditor(logger)
	if cfg.OTLPEndpoint == "" {
		return logAuditor, func() {}, nil
	}

	otelAuditor, err := audit.NewOTelAuditor(ctx, logger, cfg.OTLPEndpoint)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create OTLP auditor: %w", err)
	}
	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = otelAuditor.Close(ctx)
	}
	return audit.NewMultiAuditor(logAuditor, otelAuditor), closeFn, nil
}

// setupLogging creates a slog logger with the configured level, writing to
// stderr or to a per-invocation file in the log dir.
func setupLogging(cfg config.AppConfig) (*slog.Logger, func(), error) {
	var level slog.Level
	switch cfg.LogLevel {
	case "error":
		level = slog.LevelError
	case "info":
		level = slog.LevelInfo
	case "debug":
		level = slog.LevelDebug
	default:
		level = slog.LevelWarn
	}

	var logTarget io.Writer = os.Stderr
	closeFn := func() {}

	if cfg.LogDir != "" {
		if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("could not set up log dir %s: %v", cfg.LogDir, err)
		}

		// Timestamp and pid keep concurrent invocations apart.
		logFilePath := fmt.Sprintf("jailclean-%s-%d.log",
			time.Now().Format("2006-01-02_15-04-05"),
			os.Getpid())

		logFile, err := os.Create(filepath.Join(cfg.LogDir, logFilePath))
		if err != nil {
			return nil, nil, fmt.Errorf("could not create log file %s: %v", logFilePath, err)
		}
		logTarget = logFile
		closeFn = func() { _ = logFile.Close() }
	}

	handler := slog.NewTextHandler(logTarget, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(handler), closeFn, nil
}
