package tasks

import (
	"encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestTaskStatusComplete(t *testing.T) {
	for status, complete := range map[TaskStatus]bool{
		TaskStatusSubmitted:        false,
		TaskStatusStarted:          false,
		TaskStatusFailed:           false,
		TaskStatusCompletedSuccess: true,
		TaskStatusCompletedFailure: true,
		TaskStatusCanceled:         true,
	} {
		assert.Equal(t, complete, status.Complete(), string(status))
	}
}

func TestTagTaskJSON(t *testing.T) {
	raw := `{
		"corpus": "brown",
		"text_file_key": "incoming/doc-1.txt",
		"canceled": false,
		"status": {"status": "failed", "attempts": 2, "started_at": "2021-03-01T10:00:00.000000+00:00",
			"completed_at": null, "error_messages": ["boom"]}
	}`
	var task TagTask
	require.NoError(t, json.Unmarshal([]byte(raw), &task))

	assert.Equal(t, "brown", task.Corpus)
	assert.Equal(t, "incoming/doc-1.txt", task.TextFileKey)
	assert.Equal(t, TaskStatusFailed, task.Status.Status)
	assert.Equal(t, 2, task.Status.Attempts)
	require.NotNil(t, task.Status.StartedAt)
	assert.Nil(t, task.Status.CompletedAt)
	assert.Equal(t, []string{"boom"}, task.Status.ErrorMessages)
}
