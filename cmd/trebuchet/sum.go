package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"trebuchet/internal/config"
	"trebuchet/internal/diagfmt"
	"trebuchet/internal/driver"
	"trebuchet/internal/ui"
)

func newSumCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sum [flags] [file...]",
		Short: "Sum the calibration values of one or more files",
		Long: `Sum reads every non-empty line, takes the first and last digit (and, in words
mode, the spelled-out digits one..nine) and adds up the two-digit values.
Without arguments the input configured in trebuchet.toml is used.`,
		RunE: runSum,
	}
	cmd.Flags().String("mode", "words", "token mode (digits|words)")
	cmd.Flags().Bool("demo", false, "use the configured demo input")
	cmd.Flags().Int("jobs", 0, "max parallel files (0=GOMAXPROCS)")
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().Bool("cache", false, "enable the result cache (default dir: $XDG_CACHE_HOME/trebuchet)")
	cmd.Flags().String("cache-dir", "", "result cache directory (implies --cache)")
	cmd.Flags().Bool("no-cache", false, "disable the result cache")
	cmd.Flags().Bool("clear-cache", false, "drop every cached result before summing")
	cmd.Flags().String("ui", "off", "progress UI for multi-file runs (auto|on|off)")
	return cmd
}

type sumFileJSON struct {
	Path        string                     `json:"path"`
	Total       int                        `json:"total"`
	Lines       int                        `json:"lines"`
	Cached      bool                       `json:"cached,omitempty"`
	Error       string                     `json:"error,omitempty"`
	Diagnostics *diagfmt.DiagnosticsOutput `json:"diagnostics,omitempty"`
}

type sumJSON struct {
	Mode  string        `json:"mode"`
	Total int           `json:"total"`
	Files []sumFileJSON `json:"files"`
}

func runSum(cmd *cobra.Command, args []string) (err error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
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
	defer func() {
		if err != nil {
			dumpTraceRing(cmd, cmd.ErrOrStderr())
		}
	}()

	opts, err := driverOptions(cmd, cfg, log)
	if err != nil {
		return err
	}

	paths := inputPaths(args, cfg)
	ctx := cmd.Context()
	var batch *driver.BatchResult
	if len(paths) > 1 && format == "pretty" && shouldUseTUI(mode, cmd.OutOrStdout()) {
		batch, err = runSumWithUI(ctx, cmd.OutOrStdout(), "summing calibration values", paths, opts)
	} else {
		batch, err = driver.SumFiles(ctx, paths, opts)
	}
	if err != nil {
		return err
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")

	if format == "json" {
		if err := writeSumJSON(out, batch, cfg); err != nil {
			return err
		}
	} else {
		printDiagnostics(cmd, errOut, batch)
		switch {
		case len(batch.Files) == 1:
			if batch.Files[0].Err == nil {
				fmt.Fprintln(out, batch.Files[0].Result.Total)
			}
		case quiet:
			fmt.Fprintln(out, batch.Total())
		default:
			fmt.Fprint(out, ui.RenderSummary(ui.RowsFromBatch(batch), batch.Total(), ui.SummaryOpts{Color: useColor(cmd, out)}))
		}
	}

	if opts.Timings {
		printTimings(errOut, batch)
	}

	if failed := batch.Failed(); failed > 0 {
		if len(batch.Files) == 1 {
			return batch.Files[0].Err
		}
		return fmt.Errorf("%d of %d files failed", failed, len(batch.Files))
	}
	return nil
}

func driverOptions(cmd *cobra.Command, cfg config.Config, log *slog.Logger) (driver.Options, error) {
	root := cmd.Root().PersistentFlags()
	maxDiagnostics, err := root.GetInt("max-diagnostics")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	timings, err := root.GetBool("timings")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get timings flag: %w", err)
	}

	opts := driver.Options{
		Mode:           cfg.Mode(),
		MaxDiagnostics: maxDiagnostics,
		Jobs:           cfg.Solve.Jobs,
		Logger:         log,
		Timings:        timings,
	}
	if cfg.Cache.Active() {
		opts.Cache = openCache(cmd, cfg.Cache, log)
	}
	return opts, nil
}

// openCache opens the configured cache and honours --clear-cache.
// Any failure only disables caching for this run.
func openCache(cmd *cobra.Command, cfg config.Cache, log *slog.Logger) *driver.DiskCache {
	dir := cfg.Dir
	if dir == "" {
		var err error
		if dir, err = driver.DefaultCacheDir(appName); err != nil {
			log.Warn("cache disabled", "error", err)
			return nil
		}
	}
	cache, err := driver.OpenDiskCache(dir)
	if err != nil {
		// без кэша тоже можно работать
		log.Warn("cache disabled", "dir", dir, "error", err)
		return nil
	}
	if drop, _ := cmd.Flags().GetBool("clear-cache"); drop {
		if err := cache.DropAll(); err != nil {
			log.Warn("cache clear failed", "dir", dir, "error", err)
		} else {
			log.Info("cache cleared", "dir", dir)
		}
	}
	return cache
}

// printDiagnostics prints every file's bag in file order.
func printDiagnostics(cmd *cobra.Command, w io.Writer, batch *driver.BatchResult) {
	color := useColor(cmd, w)
	for i := range batch.Files {
		bag := batch.Files[i].Bag
		if bag == nil || bag.Len() == 0 {
			continue
		}
		bag.Sort()
		diagfmt.Pretty(w, bag, batch.FileSet, diagfmt.PrettyOpts{
			Color:     color,
			PathMode:  diagfmt.PathModeAuto,
			ShowNotes: true,
		})
	}
}

func writeSumJSON(w io.Writer, batch *driver.BatchResult, cfg config.Config) error {
	payload := sumJSON{Mode: cfg.Mode().String(), Total: batch.Total(), Files: make([]sumFileJSON, 0, len(batch.Files))}
	for i := range batch.Files {
		f := &batch.Files[i]
		entry := sumFileJSON{Path: f.Path, Total: f.Total(), Lines: len(f.Result.Lines), Cached: f.Cached}
		if f.Err != nil {
			entry.Error = f.Err.Error()
		}
		if f.Bag != nil && f.Bag.Len() > 0 {
			f.Bag.Sort()
			out := diagfmt.BuildDiagnosticsOutput(f.Bag, batch.FileSet, diagfmt.JSONOpts{
				IncludePositions: true,
				PathMode:         diagfmt.PathModeAuto,
				IncludeNotes:     true,
			})
			entry.Diagnostics = &out
		}
		payload.Files = append(payload.Files, entry)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func printTimings(w io.Writer, batch *driver.BatchResult) {
	for i := range batch.Files {
		f := &batch.Files[i]
		if f.Timing == nil {
			continue
		}
		fmt.Fprintf(w, "%s\n%s", f.Path, f.Timing.Summary())
	}
}
