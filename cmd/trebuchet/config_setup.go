package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"trebuchet/internal/config"
	"trebuchet/internal/logging"
)

// loadConfig reads the config file (explicit --config or the nearest one)
// and applies command-line overrides on top.
func loadConfig(cmd *cobra.Command, log *slog.Logger) (config.Config, error) {
	root := cmd.Root().PersistentFlags()
	path, err := root.GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}

	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return config.Config{}, err
	}
	if cfg.Source != "" {
		log.Debug("config loaded", "path", cfg.Source)
	}

	// trace: флаги важнее файла
	if root.Changed("trace") {
		cfg.Trace.Output, _ = root.GetString("trace")
		// --trace без уровня включает фазы
		if !root.Changed("trace-level") && (cfg.Trace.Level == "" || cfg.Trace.Level == "off") {
			cfg.Trace.Level = "phase"
		}
	}
	if root.Changed("trace-level") {
		cfg.Trace.Level, _ = root.GetString("trace-level")
	}
	if root.Changed("trace-mode") {
		cfg.Trace.Mode, _ = root.GetString("trace-mode")
	}
	if root.Changed("trace-ring-size") {
		cfg.Trace.RingSize, _ = root.GetInt("trace-ring-size")
	}

	flags := cmd.Flags()
	if f := flags.Lookup("mode"); f != nil && f.Changed {
		cfg.Solve.Mode = f.Value.String()
	}
	if f := flags.Lookup("demo"); f != nil && f.Changed {
		cfg.Input.Demo, _ = flags.GetBool("demo")
	}
	if f := flags.Lookup("jobs"); f != nil && f.Changed {
		cfg.Solve.Jobs, _ = flags.GetInt("jobs")
	}
	if f := flags.Lookup("cache-dir"); f != nil && f.Changed {
		cfg.Cache.Dir = f.Value.String()
	}
	if f := flags.Lookup("cache"); f != nil && f.Changed {
		cfg.Cache.Enabled, _ = flags.GetBool("cache")
	}
	if f := flags.Lookup("no-cache"); f != nil && f.Changed {
		if off, _ := flags.GetBool("no-cache"); off {
			cfg.Cache = config.Cache{}
		}
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger builds the operational logger from --log-level.
func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	levelStr, err := cmd.Root().PersistentFlags().GetString("log-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get log-level flag: %w", err)
	}
	level, err := logging.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(cmd.ErrOrStderr(), level), nil
}

// inputPaths returns the positional files or the configured input.
func inputPaths(args []string, cfg config.Config) []string {
	if len(args) > 0 {
		return args
	}
	return []string{cfg.InputPath()}
}
