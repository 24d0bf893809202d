package properties

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwellingly/dwellingly-cli/internal/api"
	"github.com/dwellingly/dwellingly-cli/internal/session"
)

type fakeSource struct {
	pages      [][]api.Property
	listErr    error
	archiveErr error

	listCalls int
	archived  [][]int64
	sessions  []session.Session
}

func (f *fakeSource) ListProperties(_ context.Context, sess session.Session) ([]api.Property, error) {
	f.listCalls++
	f.sessions = append(f.sessions, sess)
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

func (f *fakeSource) ArchiveProperties(_ context.Context, sess session.Session, ids []int64) error {
	f.sessions = append(f.sessions, sess)
	f.archived = append(f.archived, append([]int64(nil), ids...))
	return f.archiveErr
}

type note struct {
	message string
	level   Level
}

type recordingNotifier struct {
	notes []note
}

func (n *recordingNotifier) Notify(message string, level Level) {
	n.notes = append(n.notes, note{message, level})
}

func oakAndPine() []api.Property {
	return []api.Property{
		{ID: 1, Name: "Oak St", Address: "1 Oak St", Archived: false},
		{ID: 2, Name: "Pine Ave", Address: "2 Pine Ave", Archived: true},
	}
}

func newTestController(t *testing.T, src *fakeSource) (*Controller, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	c := NewController(src, session.New("tok"), n)
	return c, n
}

func TestLoadScenarioA(t *testing.T) {
	src := &fakeSource{pages: [][]api.Property{oakAndPine()}}
	c, n := newTestController(t, src)

	require.True(t, c.Load(context.Background()))
	assert.Empty(t, n.notes)
	assert.Equal(t, []int64{1}, ids(c.Displayed()))

	c.ToggleShowArchived()
	assert.Equal(t, []int64{1, 2}, ids(c.Displayed()))
	assert.Equal(t, map[int64]bool{2: true}, c.NonSelectable())
	assert.Equal(t, "tok", src.sessions[0].Token)
}

func TestSearchWithShowArchivedScenarioB(t *testing.T) {
	src := &fakeSource{pages: [][]api.Property{oakAndPine()}}
	c, _ := newTestController(t, src)
	c.Load(context.Background())
	c.ToggleShowArchived()

	c.SetSearch("Pine")
	assert.True(t, c.SearchActive())
	assert.Equal(t, []int64{2}, ids(c.Displayed()))

	// Search and archive visibility compose with AND.
	c.ToggleShowArchived()
	assert.Empty(t, c.Displayed())

	c.ClearSearch()
	assert.False(t, c.SearchActive())
	assert.Equal(t, []int64{1}, ids(c.Displayed()))
}

func TestToggleShowArchivedTwiceRestoresView(t *testing.T) {
	src := &fakeSource{pages: [][]api.Property{oakAndPine()}}
	c, _ := newTestController(t, src)
	c.Load(context.Background())

	for _, q := range []string{"", "pine", "oak", "nothing"} {
		c.SetSearch(q)
		before := c.Displayed()
		c.ToggleShowArchived()
		c.ToggleShowArchived()
		assert.Equal(t, before, c.Displayed(), "query %q", q)
	}
}

func TestToggleReadsCurrentSearchNotStaleSnapshot(t *testing.T) {
	src := &fakeSource{pages: [][]api.Property{oakAndPine()}}
	c, _ := newTestController(t, src)
	c.Load(context.Background())

	c.SetSearch("oak")
	c.ClearSearch()
	c.ToggleShowArchived()
	assert.Equal(t, []int64{1, 2}, ids(c.Displayed()))
}

func TestArchiveSelectedSuccessScenarioC(t *testing.T) {
	src := &fakeSource{pages: [][]api.Property{
		oakAndPine(),
		{
			{ID: 1, Name: "Oak St", Archived: true},
			{ID: 2, Name: "Pine Ave", Archived: true},
		},
	}}
	c, n := newTestController(t, src)
	c.Load(context.Background())

	c.SelectRow(Record{ID: 1})
	require.True(t, c.OpenArchive())
	require.NoError(t, c.ArchiveSelected(context.Background()))

	require.Len(t, n.notes, 1)
	assert.Equal(t, note{"Property Archived.", LevelSuccess}, n.notes[0])
	assert.Equal(t, 0, c.SelectionCount())
	assert.Equal(t, ArchiveIdle, c.ArchiveState())
	assert.Equal(t, 2, src.listCalls)
	assert.Equal(t, [][]int64{{1}}, src.archived)
	assert.Equal(t, map[int64]bool{1: true, 2: true}, c.NonSelectable())
	assert.Empty(t, c.Displayed())
}

func TestArchiveSelectedPluralMessage(t *testing.T) {
	page := []api.Property{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}}
	src := &fakeSource{pages: [][]api.Property{page}}
	c, n := newTestController(t, src)
	c.Load(context.Background())

	c.SelectAll(c.Displayed())
	require.NoError(t, c.ArchiveSelected(context.Background()))
	assert.Equal(t, [][]int64{{1, 2, 3}}, src.archived)
	require.NotEmpty(t, n.notes)
	assert.Equal(t, "Properties Archived.", n.notes[0].message)
}

func TestArchiveSelectedFailureScenarioD(t *testing.T) {
	src := &fakeSource{pages: [][]api.Property{oakAndPine()}, archiveErr: errors.New("Network error")}
	c, n := newTestController(t, src)
	c.Load(context.Background())

	c.SelectRow(Record{ID: 1})
	require.True(t, c.OpenArchive())
	err := c.ArchiveSelected(context.Background())
	require.Error(t, err)

	assert.Equal(t, []note{{"Network error", LevelError}}, n.notes)
	assert.Equal(t, []int64{1}, c.SelectedIDs())
	assert.Equal(t, ArchiveConfirming, c.ArchiveState())
	assert.Equal(t, 1, src.listCalls)
}

func TestArchiveFailureUsesAPIErrorMessage(t *testing.T) {
	src := &fakeSource{
		pages:      [][]api.Property{oakAndPine()},
		archiveErr: &api.Error{Status: 500, Message: "Network error"},
	}
	c, n := newTestController(t, src)
	c.Load(context.Background())
	c.SelectRow(Record{ID: 1})

	_ = c.ArchiveSelected(context.Background())
	require.Len(t, n.notes, 1)
	assert.Equal(t, "Network error", n.notes[0].message)
}

func TestSelectRowIgnoresNonSelectableScenarioE(t *testing.T) {
	src := &fakeSource{pages: [][]api.Property{oakAndPine()}}
	c, _ := newTestController(t, src)
	c.Load(context.Background())

	c.SelectRow(Record{ID: 2})
	assert.Equal(t, 0, c.SelectionCount())

	c.SelectRow(Record{ID: 99})
	assert.Equal(t, 0, c.SelectionCount())

	c.SelectRow(Record{ID: 1})
	c.SelectRow(Record{ID: 1})
	assert.Equal(t, []int64{1}, c.SelectedIDs())

	c.DeselectRow(Record{ID: 1})
	assert.Equal(t, 0, c.SelectionCount())
}

func TestSelectAllExcludesArchived(t *testing.T) {
	page := []api.Property{
		{ID: 1, Name: "A"},
		{ID: 2, Name: "B", Archived: true},
		{ID: 3, Name: "C"},
		{ID: 4, Name: "D", Archived: true},
	}
	src := &fakeSource{pages: [][]api.Property{page}}
	c, _ := newTestController(t, src)
	c.Load(context.Background())
	c.ToggleShowArchived()

	c.OnSelectAll(true, c.Displayed())
	assert.Equal(t, []int64{1, 3}, c.SelectedIDs())
	for id := range c.NonSelectable() {
		assert.False(t, c.IsSelected(id))
	}

	c.OnSelectAll(false, c.Displayed())
	assert.Equal(t, 0, c.SelectionCount())
}

func TestSelectionSurvivesSearch(t *testing.T) {
	src := &fakeSource{pages: [][]api.Property{oakAndPine()}}
	c, _ := newTestController(t, src)
	c.Load(context.Background())

	c.OnSelect(Record{ID: 1}, true)
	c.SetSearch("pine")
	assert.NotContains(t, ids(c.Displayed()), int64(1))
	assert.True(t, c.IsSelected(1))

	c.OnSelect(Record{ID: 1}, false)
	assert.False(t, c.IsSelected(1))
}

func TestLoadFailureKeepsCanonicalSet(t *testing.T) {
	src := &fakeSource{pages: [][]api.Property{oakAndPine()}}
	c, n := newTestController(t, src)
	require.True(t, c.Load(context.Background()))
	c.SelectRow(Record{ID: 1})

	src.listErr = &api.TransportError{Op: "GET /api/properties", Err: errors.New("connection refused")}
	assert.False(t, c.Load(context.Background()))

	assert.Len(t, c.Records(), 2)
	assert.Equal(t, []int64{1}, c.SelectedIDs())
	require.Len(t, n.notes, 1)
	assert.Equal(t, LevelError, n.notes[0].level)
	assert.Contains(t, n.notes[0].message, "request failed")
}

func TestLoadClearsSelectionAndDropsDuplicates(t *testing.T) {
	page := []api.Property{{ID: 1, Name: "A"}, {ID: 1, Name: "A again"}, {ID: 2, Name: "B"}}
	src := &fakeSource{pages: [][]api.Property{page}}
	c, _ := newTestController(t, src)
	c.Load(context.Background())
	c.SelectRow(Record{ID: 2})

	c.Load(context.Background())
	assert.Equal(t, 0, c.SelectionCount())
	require.Len(t, c.Records(), 2)
	assert.Equal(t, "A", c.Records()[0].Name)
}

func TestArchiveWorkflowTransitions(t *testing.T) {
	src := &fakeSource{pages: [][]api.Property{oakAndPine()}}
	c, _ := newTestController(t, src)
	c.Load(context.Background())

	assert.False(t, c.OpenArchive(), "empty selection must not open the dialog")
	assert.Equal(t, ArchiveIdle, c.ArchiveState())

	c.SelectRow(Record{ID: 1})
	require.True(t, c.OpenArchive())
	assert.Equal(t, ArchiveConfirming, c.ArchiveState())

	c.CancelArchive()
	assert.Equal(t, ArchiveIdle, c.ArchiveState())
	assert.Empty(t, src.archived)

	require.True(t, c.OpenArchive())
	sent, err := c.BeginArchive()
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, sent)
	assert.Equal(t, ArchiveSubmitting, c.ArchiveState())

	_, err = c.BeginArchive()
	assert.ErrorIs(t, err, ErrArchiveInFlight)
	assert.False(t, c.OpenArchive())
	c.CancelArchive()
	assert.Equal(t, ArchiveSubmitting, c.ArchiveState())

	require.NoError(t, c.SubmitArchive(context.Background(), sent))
	assert.True(t, c.FinishArchive(sent, nil))
	assert.Equal(t, ArchiveIdle, c.ArchiveState())
	assert.Equal(t, 0, c.SelectionCount(), "selection clears before the reload resolves")
}

func TestArchiveSelectedRequiresSelection(t *testing.T) {
	src := &fakeSource{pages: [][]api.Property{oakAndPine()}}
	c, _ := newTestController(t, src)
	c.Load(context.Background())

	assert.ErrorIs(t, c.ArchiveSelected(context.Background()), ErrEmptySelection)
	_, err := c.BeginArchive()
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Empty(t, src.archived)
}

func TestLoadWhileConfirmingClosesDialog(t *testing.T) {
	src := &fakeSource{pages: [][]api.Property{oakAndPine()}}
	c, _ := newTestController(t, src)
	c.Load(context.Background())
	c.SelectRow(Record{ID: 1})
	require.True(t, c.OpenArchive())

	c.Load(context.Background())
	assert.Equal(t, ArchiveIdle, c.ArchiveState())
	assert.Equal(t, 0, c.SelectionCount())
}

func TestLoadWhileSubmittingKeepsSelectionForRetry(t *testing.T) {
	threeRows := []api.Property{
		{ID: 1, Name: "Oak St"},
		{ID: 2, Name: "Pine Ave", Archived: true},
		{ID: 3, Name: "Elm Rd"},
	}
	// The reload sees id 3 archived by someone else.
	reloaded := []api.Property{
		{ID: 1, Name: "Oak St"},
		{ID: 2, Name: "Pine Ave", Archived: true},
		{ID: 3, Name: "Elm Rd", Archived: true},
	}
	src := &fakeSource{pages: [][]api.Property{threeRows, reloaded}}
	c, n := newTestController(t, src)
	require.True(t, c.Load(context.Background()))
	c.SelectRow(Record{ID: 1})
	c.SelectRow(Record{ID: 3})
	require.True(t, c.OpenArchive())
	ids, err := c.BeginArchive()
	require.NoError(t, err)

	require.True(t, c.ApplyLoad(c.Fetch(context.Background())))
	assert.Equal(t, ArchiveSubmitting, c.ArchiveState())
	assert.Equal(t, []int64{1}, c.SelectedIDs())

	assert.False(t, c.FinishArchive(ids, errors.New("Network error")))
	assert.Equal(t, ArchiveConfirming, c.ArchiveState())
	require.NotEmpty(t, n.notes)
	assert.Equal(t, note{"Network error", LevelError}, n.notes[len(n.notes)-1])

	retry, err := c.BeginArchive()
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, retry)
}

func TestRecordFromAPI(t *testing.T) {
	r := RecordFromAPI(api.Property{
		ID:                  7,
		Name:                "Elm",
		PropertyManagerName: []string{"Ana", "Ben"},
		TenantIDs:           []int64{1, 2, 3},
	})
	assert.Equal(t, "Ana, Ben", r.Managers())
	assert.Equal(t, 3, r.TenantCount)
	assert.Equal(t, "", RecordFromAPI(api.Property{}).Managers())
}
