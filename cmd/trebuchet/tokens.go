package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trebuchet/internal/diagfmt"
	"trebuchet/internal/driver"
)

func newTokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens [flags] [file]",
		Short: "Show the numeric tokens found on each line",
		Long:  `Tokens scans a calibration file and lists every digit and number word per line, overlaps included`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTokens,
	}
	cmd.Flags().String("mode", "words", "token mode (digits|words)")
	cmd.Flags().Bool("demo", false, "use the configured demo input")
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runTokens(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, log)
	if err != nil {
		return err
	}
	cleanup, err := setupTracing(cmd, cfg.Trace)
	if err != nil {
		return err
	}
	defer cleanup()

	path := inputPaths(args, cfg)[0]
	result, err := driver.Tokenize(cmd.Context(), path, driver.Options{Mode: cfg.Mode()})
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Выводим токены в выбранном формате
	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.File, result.Lines)
	case "json":
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.File, result.Lines)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
