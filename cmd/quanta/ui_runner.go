package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"quanta/internal/driver"
	"quanta/internal/source"
	"quanta/internal/ui"
)

type batchOutcome struct {
	fs      *source.FileSet
	results []driver.FileResult
	err     error
}

// runBatchWithUI runs the batch while a progress view consumes its events.
func runBatchWithUI(ctx context.Context, title string, files []string, opts driver.Options) (*source.FileSet, []driver.FileResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan batchOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		fs, results, err := driver.Run(ctx, files, opts)
		outcomeCh <- batchOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// the view may quit early; keep the workers unblocked
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
