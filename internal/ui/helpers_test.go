package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/dwellingly/dwellingly-cli/internal/api"
	"github.com/dwellingly/dwellingly-cli/internal/session"
)

// fakeSource serves list pages in order, repeating the last one.
type fakeSource struct {
	pages      [][]api.Property
	listErr    error
	archiveErr error
	archived   [][]int64
}

func (f *fakeSource) ListProperties(_ context.Context, _ session.Session) ([]api.Property, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.pages) == 0 {
		return nil, nil
	}
	page := f.pages[0]
	if len(f.pages) > 1 {
		f.pages = f.pages[1:]
	}
	return page, nil
}

func (f *fakeSource) ArchiveProperties(_ context.Context, _ session.Session, ids []int64) error {
	f.archived = append(f.archived, append([]int64(nil), ids...))
	return f.archiveErr
}

func threeProperties() []api.Property {
	return []api.Property{
		{ID: 1, Name: "Meerkat Manor", Address: "12 Burrow Ln", PropertyManagerName: []string{"Ana Ruiz"}, TenantIDs: []int64{4, 5}},
		{ID: 2, Name: "Old Mill", Address: "3 River Rd", Archived: true},
		{ID: 3, Name: "Birch Court", Address: "40 Birch Ave", PropertyManagerName: []string{"Sam Lee"}},
	}
}

// collectMsgs runs cmd and any batched commands it expands to. Callers must
// not pass commands that wait on timers.
func collectMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collectMsgs(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func collectToasts(cmd tea.Cmd) []toastMsg {
	var out []toastMsg
	for _, msg := range collectMsgs(cmd) {
		if t, ok := msg.(toastMsg); ok {
			out = append(out, t)
		}
	}
	return out
}

func findMsg[T any](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if typed, ok := m.(T); ok {
			return typed, true
		}
	}
	var zero T
	return zero, false
}

func TestCenterBlockUniformPadsShortLines(t *testing.T) {
	out := centerBlockUniform("hi\nworld", 15)

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "     hi", lines[0])
	assert.Equal(t, "     world", lines[1])
}

func TestCenterBlockUniformLeavesWideBlocks(t *testing.T) {
	in := "0123456789"
	assert.Equal(t, in, centerBlockUniform(in, 5))
	assert.Equal(t, in, centerBlockUniform(in, 0))
}
