package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwellingly/dwellingly-cli/internal/properties"
)

func TestNoteQueueFlushEmpty(t *testing.T) {
	q := &noteQueue{}
	assert.Nil(t, q.flush())
}

func TestNoteQueueFlushClearsPending(t *testing.T) {
	q := &noteQueue{}
	q.Notify("Property Archived.", properties.LevelSuccess)

	cmd := q.flush()
	require.NotNil(t, cmd)
	assert.Empty(t, q.pending)
	assert.Equal(t, []toastMsg{{level: "success", text: "Property Archived."}}, collectToasts(cmd))
}

func TestNoteQueueFlushBatchesSeveral(t *testing.T) {
	q := &noteQueue{}
	q.Notify("one", properties.LevelError)
	q.Notify("two", properties.LevelSuccess)

	toasts := collectToasts(q.flush())
	assert.ElementsMatch(t, []toastMsg{
		{level: "error", text: "one"},
		{level: "success", text: "two"},
	}, toasts)
}
