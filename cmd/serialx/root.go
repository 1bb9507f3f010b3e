package main

import (
	"context"
	"io"
	"strings"

	"github.com/Conversia-AI/craftable-serialx/codecx"
	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/Conversia-AI/craftable-serialx/errx/errxcobra"
	"github.com/Conversia-AI/craftable-serialx/eventx"
	"github.com/Conversia-AI/craftable-serialx/fsx"
	"github.com/Conversia-AI/craftable-serialx/handlerx"
	"github.com/Conversia-AI/craftable-serialx/schemax"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries the process wiring shared by the commands
type app struct {
	out    io.Writer
	errOut io.Writer
	exit   func(int)

	cfg    *Config
	logger *zap.Logger
	fs     fsx.FileSystem

	// newPublisher opens the --notify-queue target
	newPublisher func(ctx context.Context, queueURL string) (eventx.Publisher, error)
}

func newApp(out, errOut io.Writer, exit func(int)) *app {
	return &app{
		out:          out,
		errOut:       errOut,
		exit:         exit,
		logger:       zap.NewNop(),
		newPublisher: openPublisher,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "serialx",
		Short:         "Validate and normalize records against declarative schemas",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			installLogger(logger)

			a.cfg = cfg
			a.logger = logger
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("fs", "local", "File system for schema and data files: local, local:<dir> or s3://bucket/prefix")
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flags.String("log-format", "console", "Log format (console or json)")
	flags.StringSlice("schema", nil, "Schema definition file (repeatable)")
	flags.StringP("output", "o", "json", "Output format: "+strings.Join(codecx.Names(), ", "))
	flags.BoolP("verbose", "v", false, "Show error details and causes")

	root.AddCommand(
		newSchemasCmd(a),
		newValidateCmd(a),
		newCheckCmd(a),
		newServeCmd(a),
		newTokenCmd(a),
	)
	return root
}

// run wraps a command body with file system setup and errxcobra error output
func (a *app) run(fn func(ctx context.Context, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		opts := errxcobra.CLIOptions{
			Format:      errxcobra.OutputFormatText,
			DisplayMode: errxcobra.DisplayModeNormal,
			ExitOnError: true,
			ExitFunc:    a.exit,
			Out:         a.errOut,
		}
		if a.cfg.Output == "json" {
			opts.Format = errxcobra.OutputFormatJSON
		}
		if a.cfg.Verbose {
			opts.DisplayMode = errxcobra.DisplayModeDetailed
		}
		cli := errxcobra.NewCLI(opts)

		return cli.HandleCommandError(func(cmd *cobra.Command, args []string) error {
			defer func() { _ = a.logger.Sync() }()

			fs, err := openFS(cmd.Context(), a.cfg.FS)
			if err != nil {
				return err
			}
			a.fs = fs
			return fn(cmd.Context(), cmd, args)
		})(cmd, args)
	}
}

// registry loads every --schema file
func (a *app) registry(ctx context.Context) (*schemax.Registry, error) {
	if len(a.cfg.Schemas) == 0 {
		return nil, errx.New("At least one --schema file is required", errx.TypeBadRequest)
	}

	reg := schemax.NewRegistry()
	for _, path := range a.cfg.Schemas {
		if _, err := reg.LoadFile(ctx, a.fs, path); err != nil {
			return nil, err
		}
		a.logger.Debug("schema file loaded", zap.String("path", path))
	}
	return reg, nil
}

func (a *app) service(ctx context.Context) (*handlerx.Service, error) {
	reg, err := a.registry(ctx)
	if err != nil {
		return nil, err
	}
	return handlerx.NewService(reg), nil
}

// print encodes v with the --output codec
func (a *app) print(v any) error {
	codec, err := codecx.ForName(a.cfg.Output)
	if err != nil {
		return err
	}
	out, err := codec.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := a.out.Write(out); err != nil {
		return err
	}
	if len(out) > 0 && out[len(out)-1] != '\n' {
		_, err = io.WriteString(a.out, "\n")
	}
	return err
}
