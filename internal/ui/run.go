package ui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"walter/internal/buildpipeline"
)

// Run renders progress for work until it returns. work receives a sink
// that feeds the renderer.
func Run(ctx context.Context, title string, out io.Writer, work func(buildpipeline.ProgressSink) error) error {
	events := make(chan buildpipeline.Event, 64)
	program := tea.NewProgram(NewProgressModel(title, events), tea.WithOutput(out), tea.WithInput(nil), tea.WithContext(ctx))

	errCh := make(chan error, 1)
	go func() {
		err := work(buildpipeline.ChannelSink{Ch: events})
		close(events)
		errCh <- err
	}()

	if _, err := program.Run(); err != nil {
		// renderer gone: drain so work can finish
		go func() {
			for range events {
			}
		}()
		workErr := <-errCh
		if workErr != nil {
			return workErr
		}
		return err
	}
	return <-errCh
}
