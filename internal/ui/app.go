package ui

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dwellingly/dwellingly-cli/internal/i18n"
	"github.com/dwellingly/dwellingly-cli/internal/properties"
	"github.com/dwellingly/dwellingly-cli/internal/session"
	"github.com/dwellingly/dwellingly-cli/internal/ui/components"
)

// --- View Constants ---

const (
	viewProperties = 0
	viewIssues     = 1
	viewCount      = 2
)

var viewNames = []string{"properties", "issues"}

// ViewNames lists the names accepted by Options.View.
func ViewNames() []string {
	return append([]string(nil), viewNames...)
}

const toastTTL = 2500 * time.Millisecond

// --- Messages ---

type clearToastMsg struct{ id int }

type appToast struct {
	id    int
	level string
	text  string
}

// Options configures NewApp.
type Options struct {
	Source     properties.Source
	Session    session.Session
	Translator i18n.Translator
	// View is the starting view name. Unknown names open the not-found view.
	View string
	Now  func() time.Time
}

// --- App Model ---

// App is the root TUI model that routes between views.
type App struct {
	tr   i18n.Translator
	sess session.Session
	now  func() time.Time

	view     int
	notFound *NotFoundModel
	width    int
	height   int

	toast   *appToast
	toastID int

	props  PropertiesModel
	issues IssuesModel
}

// NewApp creates the root application model.
func NewApp(opts Options) App {
	tr := opts.Translator
	if tr == nil {
		tr = i18n.MustDefault()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	a := App{
		tr:     tr,
		sess:   opts.Session,
		now:    now,
		view:   viewProperties,
		props:  NewPropertiesModel(opts.Source, opts.Session, tr),
		issues: NewIssuesModel(tr),
	}
	if name := strings.TrimSpace(strings.ToLower(opts.View)); name != "" {
		if idx, ok := viewIndex(name); ok {
			a.view = idx
		} else {
			nf := NewNotFoundModel(tr, opts.View)
			a.notFound = &nf
		}
	}
	return a
}

func viewIndex(name string) (int, bool) {
	for i, n := range viewNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.props.Init(), a.sessionCheckCmd())
}

func (a App) sessionCheckCmd() tea.Cmd {
	if !a.sess.Expired(a.now()) {
		return nil
	}
	text := a.tr.T("core.session.expired")
	return func() tea.Msg {
		return toastMsg{level: "warning", text: text}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.props.width = msg.Width
		a.props.height = msg.Height
		a.issues.width = msg.Width
		if a.notFound != nil {
			a.notFound.width = msg.Width
		}
		return a, nil

	case toastMsg:
		return a, a.setToast(msg.level, msg.text)

	case clearToastMsg:
		if a.toast != nil && a.toast.id == msg.id {
			a.toast = nil
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKeys(msg)
	}

	// Async results belong to the properties view whichever view is showing.
	var cmd tea.Cmd
	a.props, cmd = a.props.Update(msg)
	return a, cmd
}

func (a App) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, appKeys.ForceQ) {
		return a, tea.Quit
	}

	if a.notFound != nil {
		switch {
		case key.Matches(msg, appKeys.Quit):
			return a, tea.Quit
		case isBack(msg), isEnter(msg), key.Matches(msg, appKeys.NextView):
			a.notFound = nil
			a.view = viewProperties
		}
		return a, nil
	}

	captured := a.view == viewProperties && a.props.capturesKeys()
	if !captured {
		switch {
		case key.Matches(msg, appKeys.Quit):
			return a, tea.Quit
		case key.Matches(msg, appKeys.NextView):
			a.view = (a.view + 1) % viewCount
			return a, nil
		case key.Matches(msg, appKeys.PrevView):
			a.view = (a.view - 1 + viewCount) % viewCount
			return a, nil
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewProperties:
		a.props, cmd = a.props.Update(msg)
	case viewIssues:
		a.issues, cmd = a.issues.Update(msg)
	}
	return a, cmd
}

func (a *App) setToast(level, text string) tea.Cmd {
	if level == "error" {
		log.Printf("ui: %s", text)
	}
	a.toastID++
	id := a.toastID
	a.toast = &appToast{
		id:    id,
		level: level,
		text:  components.SanitizeOneLine(text),
	}
	return tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return clearToastMsg{id: id}
	})
}

// --- View ---

func (a App) View() string {
	banner := RenderBanner()
	if a.width > 0 && a.width < 50 {
		banner = compactBanner()
	}
	banner = centerBlockUniform(banner, a.width)
	tabs := centerBlockUniform(a.renderTabs(), a.width)

	var content string
	switch {
	case a.notFound != nil:
		content = a.notFound.View()
	case a.view == viewIssues:
		content = a.issues.View()
	default:
		content = a.props.View()
	}
	content = centerBlockUniform(content, a.width)

	hints := components.StatusBar(a.statusHints(), a.width)

	feedback := ""
	if a.toast != nil {
		feedback = "\n\n" + centerBlockUniform(a.renderToast(), a.width)
	}

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s%s", banner, tabs, content, hints, feedback)
}

func (a App) renderTabs() string {
	labels := []string{a.tr.T("properties.title"), a.tr.T("issues.title")}
	segments := make([]string, 0, len(labels))
	for i, label := range labels {
		if a.notFound == nil && i == a.view {
			segments = append(segments, TabActiveStyle.Render(label))
		} else {
			segments = append(segments, TabInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, segments...)
}

func (a App) statusHints() []string {
	if a.notFound != nil {
		return []string{
			components.Hint("esc", "Back"),
			components.Hint("q", "Quit"),
		}
	}
	var hints []string
	switch a.view {
	case viewProperties:
		hints = a.props.hints()
		if a.props.capturesKeys() {
			return hints
		}
	case viewIssues:
		hints = a.issues.hints()
	}
	return append(hints, components.BindingHints(appKeys.NextView, appKeys.Quit)...)
}

func (a App) renderToast() string {
	if a.toast == nil {
		return ""
	}
	title := "Info"
	switch a.toast.level {
	case "success":
		title = "Success"
	case "warning":
		title = "Warning"
	case "error":
		return components.ErrorBox("Error", a.toast.text, a.width)
	}
	return components.TitledBox(title, a.toast.text, a.width)
}

func centerBlockUniform(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	maxWidth := 0
	for _, line := range lines {
		w := lipgloss.Width(line)
		if w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth <= 0 || maxWidth >= width {
		return s
	}
	pad := (width - maxWidth) / 2
	if pad <= 0 {
		return s
	}
	prefix := strings.Repeat(" ", pad)
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
