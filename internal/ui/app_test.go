package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwellingly/dwellingly-cli/internal/api"
	"github.com/dwellingly/dwellingly-cli/internal/session"
	"github.com/dwellingly/dwellingly-cli/internal/ui/components"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin@dwellingly.test",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func newTestApp(t *testing.T, src *fakeSource, view string) App {
	t.Helper()
	return NewApp(Options{Source: src, Session: session.New("tok"), View: view})
}

func updateApp(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	model, cmd := a.Update(msg)
	return model.(App), cmd
}

func TestAppStartsOnProperties(t *testing.T) {
	a := newTestApp(t, &fakeSource{}, "")
	assert.Equal(t, viewProperties, a.view)
	assert.Nil(t, a.notFound)
}

func TestAppStartView(t *testing.T) {
	a := newTestApp(t, &fakeSource{}, "Issues")
	assert.Equal(t, viewIssues, a.view)
}

func TestAppUnknownViewShowsNotFound(t *testing.T) {
	a := newTestApp(t, &fakeSource{}, "reports")
	require.NotNil(t, a.notFound)

	view := components.SanitizeText(a.View())
	assert.Contains(t, view, "404")
	assert.Contains(t, view, "We can't find the page you're looking for.")
	assert.Contains(t, view, `No view named "reports".`)

	a, _ = updateApp(t, a, keyEsc)
	assert.Nil(t, a.notFound)
	assert.Equal(t, viewProperties, a.view)
}

func TestAppTabSwitchesViews(t *testing.T) {
	a := newTestApp(t, &fakeSource{}, "")

	a, _ = updateApp(t, a, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, viewIssues, a.view)
	a, _ = updateApp(t, a, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, viewProperties, a.view)
	a, _ = updateApp(t, a, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, viewIssues, a.view)
}

func TestAppQuitKeys(t *testing.T) {
	a := newTestApp(t, &fakeSource{}, "")

	_, cmd := updateApp(t, a, runeMsg('q'))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = updateApp(t, a, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestAppSearchCapturesQuitKey(t *testing.T) {
	a := newTestApp(t, &fakeSource{pages: [][]api.Property{threeProperties()}}, "")
	a, _ = updateApp(t, a, a.props.fetchCmd()())

	a, _ = updateApp(t, a, runeMsg('/'))
	require.True(t, a.props.searching)

	a, _ = updateApp(t, a, runeMsg('q'))
	assert.Equal(t, "q", a.props.ctrl.Query())
}

func TestAppRoutesLoadResultsWhileOnIssues(t *testing.T) {
	a := newTestApp(t, &fakeSource{pages: [][]api.Property{threeProperties()}}, "issues")
	msg := a.props.fetchCmd()()

	a, _ = updateApp(t, a, msg)
	assert.True(t, a.props.ctrl.Loaded())
	assert.Len(t, a.props.ctrl.Records(), 3)
}

func TestAppToastLifecycle(t *testing.T) {
	a := newTestApp(t, &fakeSource{}, "")
	a.width = 100

	a, cmd := updateApp(t, a, toastMsg{level: "success", text: "Property Archived."})
	require.NotNil(t, cmd)
	require.NotNil(t, a.toast)
	assert.Contains(t, components.SanitizeText(a.View()), "Property Archived.")

	first := a.toast.id
	a, _ = updateApp(t, a, toastMsg{level: "error", text: "boom"})

	// A stale clear does not remove the newer toast.
	a, _ = updateApp(t, a, clearToastMsg{id: first})
	require.NotNil(t, a.toast)
	assert.Equal(t, "boom", a.toast.text)

	a, _ = updateApp(t, a, clearToastMsg{id: a.toast.id})
	assert.Nil(t, a.toast)
}

func TestAppWarnsOnExpiredSession(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	expired := session.New(signedToken(t, now.Add(-time.Hour)))

	a := NewApp(Options{Source: &fakeSource{}, Session: expired, Now: func() time.Time { return now }})
	cmd := a.sessionCheckCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, toastMsg{level: "warning", text: "Session token expired. Run 'dwellingly login'."}, cmd())

	fresh := session.New(signedToken(t, now.Add(time.Hour)))
	a = NewApp(Options{Source: &fakeSource{}, Session: fresh, Now: func() time.Time { return now }})
	assert.Nil(t, a.sessionCheckCmd())
}

func TestAppViewIncludesTabsAndHints(t *testing.T) {
	a := newTestApp(t, &fakeSource{}, "")
	a, _ = updateApp(t, a, tea.WindowSizeMsg{Width: 120, Height: 40})

	view := components.SanitizeText(a.View())
	assert.Contains(t, view, "Properties")
	assert.Contains(t, view, "Issues")
	assert.Contains(t, view, "Quit")
	assert.Contains(t, view, "Loading properties...")
}

func TestViewNames(t *testing.T) {
	assert.Equal(t, []string{"properties", "issues"}, ViewNames())
}
