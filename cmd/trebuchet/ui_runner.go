package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"trebuchet/internal/driver"
	"trebuchet/internal/ui"
)

type sumOutcome struct {
	batch *driver.BatchResult
	err   error
}

// runSumWithUI runs SumFiles while a Bubble Tea program renders progress.
func runSumWithUI(ctx context.Context, out io.Writer, title string, files []string, opts driver.Options) (*driver.BatchResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan sumOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		batch, err := driver.SumFiles(ctx, files, opts)
		outcomeCh <- sumOutcome{batch: batch, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// если UI упал раньше, не даём воркерам заблокироваться на канале
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.batch, uiErr
	}
	return outcome.batch, outcome.err
}
