package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// elapsedAfter is how long a task runs before the spinner shows its age.
const elapsedAfter = 2 * time.Second

var elapsedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

type taskFinishedMsg struct {
	err error
}

// pendingTask renders one backend call in flight, such as an AI feature or
// an article fetch, until the call reports back.
type pendingTask struct {
	spinner spinner.Model
	label   string
	run     tea.Cmd
	started time.Time
	now     func() time.Time

	finished bool
	err      error
}

func newPendingTask(label string, run tea.Cmd, now func() time.Time) pendingTask {
	return pendingTask{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
		),
		label:   label,
		run:     run,
		started: now(),
		now:     now,
	}
}

func (t pendingTask) Init() tea.Cmd {
	return tea.Batch(t.spinner.Tick, t.run)
}

func (t pendingTask) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if done, ok := msg.(taskFinishedMsg); ok {
		t.finished = true
		t.err = done.err
		return t, tea.Quit
	}

	tick, ok := msg.(spinner.TickMsg)
	if !ok {
		return t, nil
	}
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(tick)
	return t, cmd
}

func (t pendingTask) View() string {
	if t.finished {
		return ""
	}

	line := t.spinner.View() + " " + t.label
	if elapsed := t.now().Sub(t.started); elapsed >= elapsedAfter {
		line += " " + elapsedStyle.Render(fmt.Sprintf("(%ds)", int(elapsed/time.Second)))
	}
	return line
}

// runWithSpinner shows label on output while task runs and returns the task's
// error. A cancelled context ends the spinner with the context's error.
func runWithSpinner(ctx context.Context, output io.Writer, label string, task func(context.Context) error) error {
	run := func() tea.Msg {
		return taskFinishedMsg{err: task(ctx)}
	}

	final, err := tea.NewProgram(
		newPendingTask(label, run, time.Now),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	).Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("render %q spinner: %w", label, err)
	}

	state, ok := final.(pendingTask)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", final)
	}
	return state.err
}

// runTask runs task behind a spinner unless output must stay machine readable.
func runTask(ctx context.Context, output io.Writer, quiet bool, label string, task func(context.Context) error) error {
	if quiet {
		return task(ctx)
	}
	return runWithSpinner(ctx, output, label, task)
}
