package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"trebuchet/internal/config"
	"trebuchet/internal/diag"
	"trebuchet/internal/driver"
	"trebuchet/internal/version"
)

const appName = "trebuchet"

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Calibration document summer",
		Long:          `Trebuchet extracts the first and last digit (or number word) of every line and sums the two-digit values`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Добавляем команды
	rootCmd.AddCommand(newSumCmd())
	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to collect per file")
	pf.String("config", "", "config file (default: nearest trebuchet.toml/.yaml)")
	pf.String("log-level", "warn", "operational log level (debug|info|warn|error)")
	pf.String("trace", "", "trace output file (\"-\" for stderr)")
	pf.String("trace-level", "", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "", "trace storage mode (stream|ring|both)")
	pf.Int("trace-ring-size", 0, "ring buffer size for --trace-mode ring|both")

	return rootCmd
}

// main executes the root command and exits with status 1 on any error.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorLine(err))
		os.Exit(1)
	}
}

// errorLine formats the final error, prefixed with its diagnostic code when
// the failure has one.
func errorLine(err error) string {
	switch {
	case errors.Is(err, config.ErrInvalid):
		return fmt.Sprintf("error %s: %v", diag.CfgInvalid.ID(), err)
	case driver.IsFileReadError(err):
		return fmt.Sprintf("error %s: %v", diag.IOLoadFileError.ID(), err)
	default:
		return fmt.Sprintf("error: %v", err)
	}
}

// isTerminal проверяет, является ли writer терминалом
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// useColor resolves --color for output written to w.
func useColor(cmd *cobra.Command, w io.Writer) bool {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false
	}
	switch colorFlag {
	case "on", "always":
		return true
	case "off", "never":
		return false
	default:
		return isTerminal(w)
	}
}
