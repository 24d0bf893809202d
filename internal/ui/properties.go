package ui

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dwellingly/dwellingly-cli/internal/i18n"
	"github.com/dwellingly/dwellingly-cli/internal/properties"
	"github.com/dwellingly/dwellingly-cli/internal/session"
	"github.com/dwellingly/dwellingly-cli/internal/ui/components"
)

// --- Messages ---

type propertiesLoadedMsg struct {
	records []properties.Record
	err     error
}

type propertiesArchivedMsg struct {
	ids []int64
	err error
}

type archiveConfirmMsg struct{}
type archiveCancelMsg struct{}

// --- Columns ---

const (
	fieldName     = "name"
	fieldManagers = "managers"
	fieldAddress  = "address"
	fieldTenants  = "tenants"
	fieldCreated  = "created"
)

// sortColumns maps table column index to the controller's sort field.
var sortColumns = []properties.SortField{
	properties.SortName,
	properties.SortManagers,
	properties.SortAddress,
	properties.SortTenants,
	properties.SortCreated,
}

const createdLayout = "Jan 2, 2006"

// --- Properties Model ---

// PropertiesModel is the selectable property list with search, the archived
// toggle and the archive dialog. State lives in the controller; the model
// keeps only view concerns.
type PropertiesModel struct {
	ctrl  *properties.Controller
	notes *noteQueue
	tr    i18n.Translator
	keys  propertiesKeyMap

	list      *components.List
	search    textinput.Model
	searching bool
	spinner   spinner.Model
	loading   bool
	modal     *components.Modal
	sort      components.SortState

	width  int
	height int
}

// NewPropertiesModel builds the list view over source.
func NewPropertiesModel(source properties.Source, sess session.Session, tr i18n.Translator) PropertiesModel {
	notes := &noteQueue{}
	ctrl := properties.NewController(source, sess, notes, properties.WithTranslator(tr))

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = tr.T("properties.search.placeholder")
	search.CharLimit = 120

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	return PropertiesModel{
		ctrl:    ctrl,
		notes:   notes,
		tr:      tr,
		keys:    newPropertiesKeys(),
		list:    components.NewList(12),
		search:  search,
		spinner: sp,
		loading: true,
		sort:    components.Unsorted,
	}
}

func (m PropertiesModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCmd())
}

// Controller exposes the list state, mainly for tests and the app shell.
func (m PropertiesModel) Controller() *properties.Controller {
	return m.ctrl
}

// capturesKeys reports whether global keys should be passed through.
func (m PropertiesModel) capturesKeys() bool {
	return m.searching || m.modal != nil
}

func (m PropertiesModel) Update(msg tea.Msg) (PropertiesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case propertiesLoadedMsg:
		m.loading = false
		m.ctrl.ApplyLoad(msg.records, msg.err)
		if m.modal != nil && m.ctrl.ArchiveState() == properties.ArchiveIdle {
			m.modal = nil
		}
		m.syncList()
		return m, m.notes.flush()

	case archiveConfirmMsg:
		return m.startArchive()

	case archiveCancelMsg:
		if m.ctrl.ArchiveState() == properties.ArchiveSubmitting {
			return m, nil
		}
		m.ctrl.CancelArchive()
		m.modal = nil
		return m, nil

	case propertiesArchivedMsg:
		reload := m.ctrl.FinishArchive(msg.ids, msg.err)
		m.syncList()
		if !reload {
			if m.modal != nil {
				m.modal.Busy = false
			}
			return m, m.notes.flush()
		}
		m.modal = nil
		m.loading = true
		return m, tea.Batch(m.notes.flush(), m.spinner.Tick, m.fetchCmd())

	case spinner.TickMsg:
		if !m.loading && !m.submitting() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.modal != nil {
			return m, m.modal.Handle(msg)
		}
		if m.searching {
			return m.handleSearchKeys(msg)
		}
		return m.handleListKeys(msg)
	}
	return m, nil
}

func (m PropertiesModel) handleSearchKeys(msg tea.KeyMsg) (PropertiesModel, tea.Cmd) {
	switch {
	case isEnter(msg):
		m.searching = false
		m.search.Blur()
		return m, nil
	case isBack(msg):
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.ctrl.ClearSearch()
		m.syncList()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.ctrl.SetSearch(m.search.Value())
	m.syncList()
	return m, cmd
}

func (m PropertiesModel) handleListKeys(msg tea.KeyMsg) (PropertiesModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.list.Up()
	case key.Matches(msg, m.keys.Down):
		m.list.Down()
	case key.Matches(msg, m.keys.Top):
		m.list.Top()
	case key.Matches(msg, m.keys.Bottom):
		m.list.Bottom()
	case key.Matches(msg, m.keys.Toggle):
		if r, ok := m.current(); ok {
			m.ctrl.OnSelect(r, !m.ctrl.IsSelected(r.ID))
		}
	case key.Matches(msg, m.keys.SelectAll):
		m.ctrl.OnSelectAll(true, m.rows())
	case key.Matches(msg, m.keys.DeselectAll):
		m.ctrl.OnSelectAll(false, nil)
	case key.Matches(msg, m.keys.Archive):
		m.openArchive()
	case key.Matches(msg, m.keys.ShowArchived):
		m.ctrl.ToggleShowArchived()
		m.syncList()
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		cmd := m.search.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.ClearSearch):
		if m.ctrl.Query() != "" {
			m.search.SetValue("")
			m.ctrl.ClearSearch()
			m.syncList()
		}
	case key.Matches(msg, m.keys.Sort):
		m.cycleSort()
		m.syncList()
	case key.Matches(msg, m.keys.SortDir):
		if m.sort.Column >= 0 {
			m.sort.Descending = !m.sort.Descending
			m.syncList()
		}
	case key.Matches(msg, m.keys.Reload):
		if !m.loading {
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.fetchCmd())
		}
	}
	return m, nil
}

// --- Archive ---

func (m *PropertiesModel) openArchive() {
	// Inert with nothing selected.
	if m.ctrl.SelectionCount() == 0 || !m.ctrl.OpenArchive() {
		return
	}
	selected := m.ctrl.Selected()
	m.modal = &components.Modal{
		TitleText:   i18n.Plural(m.tr, "properties.archive.title", len(selected)),
		Content:     m.archiveContent(selected),
		HasButtons:  true,
		ConfirmText: m.tr.T("properties.archive.confirm"),
		CancelText:  m.tr.T("properties.archive.cancel"),
		BusyText:    m.tr.T("properties.archive.submitting"),
		Danger:      true,
		OnConfirm:   func() tea.Cmd { return emit(archiveConfirmMsg{}) },
		OnCancel:    func() tea.Cmd { return emit(archiveCancelMsg{}) },
		OnClose:     func() tea.Cmd { return emit(archiveCancelMsg{}) },
	}
}

func (m PropertiesModel) archiveContent(selected []properties.Record) string {
	lines := make([]string, 0, len(selected)+4)
	lines = append(lines, m.tr.T("properties.archive.intro", len(selected)), "")
	for _, r := range selected {
		lines = append(lines, "  • "+components.SanitizeOneLine(r.Name))
	}
	lines = append(lines, "", m.tr.T("properties.archive.question"))
	return strings.Join(lines, "\n")
}

func (m PropertiesModel) startArchive() (PropertiesModel, tea.Cmd) {
	ids, err := m.ctrl.BeginArchive()
	if err != nil {
		log.Printf("properties: archive not started: %v", err)
		return m, nil
	}
	if m.modal != nil {
		m.modal.Busy = true
	}
	ctrl := m.ctrl
	submit := func() tea.Msg {
		err := ctrl.SubmitArchive(context.Background(), ids)
		return propertiesArchivedMsg{ids: ids, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, submit)
}

func (m PropertiesModel) submitting() bool {
	return m.ctrl.ArchiveState() == properties.ArchiveSubmitting
}

// --- Data ---

func (m PropertiesModel) fetchCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		records, err := ctrl.Fetch(context.Background())
		return propertiesLoadedMsg{records: records, err: err}
	}
}

// rows is the displayed subset in view order.
func (m PropertiesModel) rows() []properties.Record {
	field := properties.SortNone
	if m.sort.Column >= 0 && m.sort.Column < len(sortColumns) {
		field = sortColumns[m.sort.Column]
	}
	return properties.Sorted(m.ctrl.Displayed(), field, m.sort.Descending)
}

func (m PropertiesModel) current() (properties.Record, bool) {
	rows := m.rows()
	idx := m.list.Selected()
	if idx < 0 || idx >= len(rows) {
		return properties.Record{}, false
	}
	return rows[idx], true
}

func (m *PropertiesModel) syncList() {
	rows := m.rows()
	items := make([]string, len(rows))
	for i, r := range rows {
		items[i] = strconv.FormatInt(r.ID, 10)
	}
	m.list.Replace(items)
}

func (m *PropertiesModel) cycleSort() {
	next := m.sort.Column + 1
	if next >= len(sortColumns) {
		m.sort = components.Unsorted
		return
	}
	m.sort = components.SortState{Column: next, Descending: m.sort.Descending}
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// --- View ---

func (m PropertiesModel) View() string {
	if m.modal != nil {
		return m.modal.Render(m.width)
	}

	var b strings.Builder
	b.WriteString(m.renderStatusLine())
	if m.searching || m.ctrl.SearchActive() {
		b.WriteString("\n")
		b.WriteString(m.search.View())
	}
	b.WriteString("\n\n")

	switch {
	case m.loading && !m.ctrl.Loaded():
		b.WriteString(m.spinner.View() + " " + MutedStyle.Render(m.tr.T("properties.loading")))
	case len(m.ctrl.Displayed()) == 0:
		b.WriteString(MutedStyle.Render(m.tr.T("properties.empty")))
	default:
		b.WriteString(m.renderTable())
		if r, ok := m.current(); ok {
			b.WriteString("\n\n")
			b.WriteString(m.renderDetail(r))
		}
	}

	return components.TitledBox(m.tr.T("properties.title"), b.String(), m.width)
}

func (m PropertiesModel) renderStatusLine() string {
	toggle := m.tr.T("core.off")
	if m.ctrl.ShowArchived() {
		toggle = m.tr.T("core.on")
	}
	parts := []string{
		m.tr.T("properties.count", len(m.ctrl.Displayed()), len(m.ctrl.Records())),
		m.tr.T("properties.archived.toggle", toggle),
		m.tr.T("properties.selected", m.ctrl.SelectionCount()),
	}
	if m.ctrl.SearchActive() {
		parts = append(parts, m.tr.T("properties.search.label", strings.TrimSpace(m.ctrl.Query())))
	}
	line := MutedStyle.Render(strings.Join(parts, "  •  "))
	if m.loading && m.ctrl.Loaded() {
		line += " " + m.spinner.View()
	}
	return line
}

func (m PropertiesModel) columns() []components.Column {
	return []components.Column{
		{Field: fieldName, Header: m.tr.T("properties.column.name"), Width: 3, Sortable: true},
		{Field: fieldManagers, Header: m.tr.T("properties.column.managers"), Width: 3, Sortable: true},
		{Field: fieldAddress, Header: m.tr.T("properties.column.address"), Width: 4, Sortable: true},
		{Field: fieldTenants, Header: m.tr.T("properties.column.tenants"), Width: 1, Align: lipgloss.Right, Sortable: true},
		{Field: fieldCreated, Header: m.tr.T("properties.column.created"), Width: 2, Sortable: true},
	}
}

func (m PropertiesModel) renderTable() string {
	visible := m.list.Visible()
	rows := m.rows()
	out := make([]components.SelectRow, 0, len(visible))
	for rel := range visible {
		r := rows[m.list.RelToAbs(rel)]
		out = append(out, components.SelectRow{
			Cells: map[string]string{
				fieldName:     r.Name,
				fieldManagers: r.Managers(),
				fieldAddress:  r.Address,
				fieldTenants:  strconv.Itoa(r.TenantCount),
				fieldCreated:  formatCreated(r),
			},
			Selected:   m.ctrl.IsSelected(r.ID),
			Selectable: m.ctrl.Selectable(r.ID),
		})
	}
	active := m.list.Cursor - m.list.Offset
	return components.SelectTable(m.columns(), out, components.BoxContentWidth(m.width), active, m.sort)
}

func (m PropertiesModel) renderDetail(r properties.Record) string {
	rows := []string{
		components.InfoRow(m.tr.T("properties.column.address"), r.Address),
		components.InfoRow(m.tr.T("properties.column.managers"), r.Managers()),
	}
	if r.Archived {
		rows = append(rows, WarningStyle.Render(m.tr.T("properties.detail.archived", r.ID)))
	}
	return strings.Join(rows, "\n")
}

func formatCreated(r properties.Record) string {
	if r.CreatedAt.IsZero() {
		return "-"
	}
	return r.CreatedAt.Format(createdLayout)
}

func (m PropertiesModel) hints() []string {
	if m.modal != nil {
		return nil
	}
	if m.searching {
		return []string{
			components.Hint("enter", "Apply"),
			components.Hint("esc", "Clear"),
		}
	}
	keys := m.keys
	keys.Archive.SetEnabled(m.ctrl.SelectionCount() > 0)
	keys.ClearSearch.SetEnabled(m.ctrl.Query() != "")
	return components.BindingHints(
		keys.Up, keys.Toggle, keys.SelectAll, keys.DeselectAll, keys.Archive,
		keys.ShowArchived, keys.Search, keys.ClearSearch, keys.Sort, keys.Reload,
	)
}
