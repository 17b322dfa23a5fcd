package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"trebuchet/internal/config"
	"trebuchet/internal/trace"
)

// setupTracing builds the tracer from the resolved trace config and attaches
// it to the command context. It returns a cleanup function.
func setupTracing(cmd *cobra.Command, cfg config.Trace) (func(), error) {
	level, err := trace.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}

	// If level is off, skip tracing
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	mode, err := trace.ParseMode(cfg.Mode)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}

	tcfg := trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: cfg.Output,
		RingSize:   cfg.RingSize,
	}
	if cfg.Output == "" || cfg.Output == "-" {
		// обёртка прячет Close, stderr закрывать нельзя
		tcfg.Output = struct{ io.Writer }{cmd.ErrOrStderr()}
	}

	tracer, err := trace.New(tcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	cleanup := func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}

// dumpTraceRing writes the buffered ring events after a failed run.
func dumpTraceRing(cmd *cobra.Command, w io.Writer) {
	ring, ok := trace.FindRing(trace.FromContext(cmd.Context()))
	if !ok {
		return
	}
	fmt.Fprintln(w, "== trace (last events) ==")
	if err := ring.Dump(w, trace.FormatText); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}
