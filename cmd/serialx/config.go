package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const envPrefix = "SERIALX_"

// Config holds the settings shared by every command
type Config struct {
	// FS is "local", "local:<root>" or "s3://bucket/prefix"
	FS        string
	LogLevel  string
	LogFormat string
	Schemas   []string
	Output    string
	Verbose   bool
}

// envName maps a flag name to its environment variable, e.g. log-level -> SERIALX_LOG_LEVEL
func envName(flag string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// applyEnv sets every flag the user did not pass from its SERIALX_* variable.
// Flags win over the environment, which wins over defaults.
func applyEnv(cmd *cobra.Command) error {
	var firstErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed || firstErr != nil {
			return
		}
		value, ok := os.LookupEnv(envName(f.Name))
		if !ok {
			return
		}
		if f.Value.Type() == "stringSlice" {
			value = strings.Join(strings.Fields(strings.ReplaceAll(value, ",", " ")), ",")
		}
		if err := cmd.Flags().Set(f.Name, value); err != nil {
			firstErr = err
		}
	})
	return firstErr
}

func loadConfig(cmd *cobra.Command) (*Config, error) {
	if err := applyEnv(cmd); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	cfg := &Config{}
	cfg.FS, _ = flags.GetString("fs")
	cfg.LogLevel, _ = flags.GetString("log-level")
	cfg.LogFormat, _ = flags.GetString("log-format")
	cfg.Schemas, _ = flags.GetStringSlice("schema")
	cfg.Output, _ = flags.GetString("output")
	cfg.Verbose, _ = flags.GetBool("verbose")
	return cfg, nil
}
