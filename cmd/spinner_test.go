package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingTaskViewShowsElapsedOnlyForSlowTasks(t *testing.T) {
	t.Parallel()

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	task := newPendingTask("Running summarize...", nil, func() time.Time { return clock })

	assert.Contains(t, task.View(), "Running summarize...")
	assert.NotContains(t, task.View(), "(")

	clock = clock.Add(3 * time.Second)
	assert.Contains(t, task.View(), "(3s)")
}

func TestPendingTaskQuitsWithTaskError(t *testing.T) {
	t.Parallel()

	task := newPendingTask("Fetching AI usage...", nil, time.Now)
	wantErr := errors.New("boom")

	model, cmd := task.Update(taskFinishedMsg{err: wantErr})
	require.NotNil(t, cmd)

	final, ok := model.(pendingTask)
	require.True(t, ok)
	assert.ErrorIs(t, final.err, wantErr)
	assert.Empty(t, final.View())
}

func TestPendingTaskIgnoresUnrelatedMessages(t *testing.T) {
	t.Parallel()

	task := newPendingTask("label", nil, time.Now)
	model, _ := task.Update(spinner.TickMsg{})
	assert.False(t, model.(pendingTask).finished)

	model, cmd := task.Update("noise")
	assert.Nil(t, cmd)
	assert.False(t, model.(pendingTask).finished)
}

func TestRunTaskQuietSkipsSpinner(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	wantErr := errors.New("failed")
	err := runTask(context.Background(), &out, true, "Running tags...", func(context.Context) error { return wantErr })

	assert.ErrorIs(t, err, wantErr)
	assert.Empty(t, out.String())
}
