package main

import (
	"context"
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"pyrefs/internal/driver"
	"pyrefs/internal/ui"
)

type scanOutcome struct {
	results []driver.FileResult
	err     error
}

var errInterrupted = errors.New("interrupted")

// runScanWithUI runs ScanDir while a progress view renders on stderr.
func runScanWithUI(ctx context.Context, title, root string, opts driver.Options, sopts driver.ScanOptions) ([]driver.FileResult, error) {
	total := 0
	if files, err := driver.RelPaths(root, sopts); err == nil {
		total = len(files)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.ProgressEvent, 256)
	outcomeCh := make(chan scanOutcome, 1)
	go func() {
		sopts.Progress = func(ev driver.ProgressEvent) { events <- ev }
		res, err := driver.ScanDir(ctx, root, opts, sopts)
		outcomeCh <- scanOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, total, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	final, uiErr := program.Run()
	if ui.Interrupted(final) {
		cancel()
	}
	// дочитываем события, чтобы воркеры не зависли на канале
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh

	switch {
	case ui.Interrupted(final):
		return nil, errInterrupted
	case outcome.err != nil:
		return outcome.results, outcome.err
	case uiErr != nil && !errors.Is(uiErr, tea.ErrProgramKilled):
		return outcome.results, uiErr
	}
	return outcome.results, nil
}
