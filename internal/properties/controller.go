package properties

import (
	"context"
	"errors"
	"log"

	"github.com/dwellingly/dwellingly-cli/internal/api"
	"github.com/dwellingly/dwellingly-cli/internal/i18n"
	"github.com/dwellingly/dwellingly-cli/internal/session"
)

var (
	// ErrEmptySelection is returned when an archive starts with nothing selected.
	ErrEmptySelection = errors.New("no properties selected")
	// ErrArchiveInFlight is returned when an archive is already submitting.
	ErrArchiveInFlight = errors.New("archive already in progress")
)

// Source is the backend the controller reads from and archives through.
// *api.Client satisfies it.
type Source interface {
	ListProperties(ctx context.Context, sess session.Session) ([]api.Property, error)
	ArchiveProperties(ctx context.Context, sess session.Session, ids []int64) error
}

// Level is a notification severity.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notifier shows a transient message. Calls are fire-and-forget.
type Notifier interface {
	Notify(message string, level Level)
}

// SelectionHandler is what a table renderer calls back into when rows are
// checked or unchecked.
type SelectionHandler interface {
	OnSelect(row Record, selected bool)
	OnSelectAll(selected bool, rows []Record)
}

// ArchiveState is the archive workflow position.
type ArchiveState int

const (
	ArchiveIdle ArchiveState = iota
	ArchiveConfirming
	ArchiveSubmitting
)

func (s ArchiveState) String() string {
	switch s {
	case ArchiveConfirming:
		return "confirming"
	case ArchiveSubmitting:
		return "submitting"
	default:
		return "idle"
	}
}

// Controller owns the canonical property set, the search query, the
// show-archived toggle, the selection and the archive workflow. It is not
// safe for concurrent use; Fetch and SubmitArchive only touch the Source and
// may run off the event loop.
type Controller struct {
	source   Source
	sess     session.Session
	notifier Notifier
	tr       i18n.Translator

	records       []Record
	index         map[int64]int
	nonSelectable map[int64]struct{}
	selected      map[int64]struct{}

	query        string
	showArchived bool
	archive      ArchiveState
	loaded       bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithTranslator overrides the message lookup used for notifications.
func WithTranslator(tr i18n.Translator) Option {
	return func(c *Controller) {
		if tr != nil {
			c.tr = tr
		}
	}
}

// NewController builds a controller with an empty canonical set.
func NewController(source Source, sess session.Session, notifier Notifier, opts ...Option) *Controller {
	c := &Controller{
		source:        source,
		sess:          sess,
		notifier:      notifier,
		index:         map[int64]int{},
		nonSelectable: map[int64]struct{}{},
		selected:      map[int64]struct{}{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tr == nil {
		c.tr = i18n.MustDefault()
	}
	return c
}

// --- Loading ---

// Fetch requests the property list. It does not touch controller state.
func (c *Controller) Fetch(ctx context.Context) ([]Record, error) {
	items, err := c.source.ListProperties(ctx, c.sess)
	if err != nil {
		return nil, err
	}
	return RecordsFromAPI(items), nil
}

// ApplyLoad installs a fetch result. On error the previous canonical set is
// kept and the error is reported. It returns whether the set was replaced.
// A successful load clears the selection and closes a pending confirmation,
// except while an archive is submitting.
func (c *Controller) ApplyLoad(records []Record, err error) bool {
	if err != nil {
		log.Printf("properties: load failed: %v", err)
		c.notify(err.Error(), LevelError)
		return false
	}

	c.records = append([]Record(nil), records...)
	c.index = make(map[int64]int, len(records))
	c.nonSelectable = map[int64]struct{}{}
	for i, r := range c.records {
		c.index[r.ID] = i
		if r.Archived {
			c.nonSelectable[r.ID] = struct{}{}
		}
	}
	prev := c.selected
	c.selected = map[int64]struct{}{}
	switch c.archive {
	case ArchiveConfirming:
		c.archive = ArchiveIdle
	case ArchiveSubmitting:
		// An in-flight archive still owns its selection; a failure must be
		// retryable, so ids that remain selectable are kept.
		for id := range prev {
			if c.Selectable(id) {
				c.selected[id] = struct{}{}
			}
		}
	}
	c.loaded = true
	log.Printf("properties: loaded %d records (%d archived)", len(c.records), len(c.nonSelectable))
	return true
}

// Load fetches and applies in one step.
func (c *Controller) Load(ctx context.Context) bool {
	records, err := c.Fetch(ctx)
	return c.ApplyLoad(records, err)
}

// Loaded reports whether any load has succeeded.
func (c *Controller) Loaded() bool {
	return c.loaded
}

// --- Views ---

// Records returns the canonical set in fetch order.
func (c *Controller) Records() []Record {
	return append([]Record(nil), c.records...)
}

// Displayed derives the visible rows from the canonical set, the current
// query and the show-archived flag. Both filters narrow the set.
func (c *Controller) Displayed() []Record {
	base, _ := Filter(c.records, c.query)
	out := make([]Record, 0, len(base))
	for _, r := range base {
		if c.showArchived || !r.Archived {
			out = append(out, r)
		}
	}
	return out
}

// Query returns the current search query.
func (c *Controller) Query() string {
	return c.query
}

// SearchActive reports whether a non-blank query narrows the list.
func (c *Controller) SearchActive() bool {
	_, active := Filter(nil, c.query)
	return active
}

// ShowArchived reports whether archived rows are displayed.
func (c *Controller) ShowArchived() bool {
	return c.showArchived
}

// SetSearch replaces the query.
func (c *Controller) SetSearch(query string) {
	c.query = query
}

// ClearSearch is SetSearch("").
func (c *Controller) ClearSearch() {
	c.SetSearch("")
}

// ToggleShowArchived flips archive visibility.
func (c *Controller) ToggleShowArchived() {
	c.showArchived = !c.showArchived
}

// NonSelectable returns the ids of archived records.
func (c *Controller) NonSelectable() map[int64]bool {
	out := make(map[int64]bool, len(c.nonSelectable))
	for id := range c.nonSelectable {
		out[id] = true
	}
	return out
}

// Selectable reports whether id is a known, unarchived record.
func (c *Controller) Selectable(id int64) bool {
	if _, ok := c.index[id]; !ok {
		return false
	}
	_, archived := c.nonSelectable[id]
	return !archived
}

// --- Selection ---

// SelectRow adds r to the selection unless it is archived or unknown.
func (c *Controller) SelectRow(r Record) {
	if !c.Selectable(r.ID) {
		return
	}
	c.selected[r.ID] = struct{}{}
}

// DeselectRow removes r from the selection.
func (c *Controller) DeselectRow(r Record) {
	delete(c.selected, r.ID)
}

// SelectAll adds every selectable record in rows to the selection.
func (c *Controller) SelectAll(rows []Record) {
	for _, r := range rows {
		c.SelectRow(r)
	}
}

// DeselectAll empties the selection.
func (c *Controller) DeselectAll() {
	c.selected = map[int64]struct{}{}
}

// OnSelect implements SelectionHandler.
func (c *Controller) OnSelect(row Record, selected bool) {
	if selected {
		c.SelectRow(row)
		return
	}
	c.DeselectRow(row)
}

// OnSelectAll implements SelectionHandler.
func (c *Controller) OnSelectAll(selected bool, rows []Record) {
	if selected {
		c.SelectAll(rows)
		return
	}
	c.DeselectAll()
}

// IsSelected reports whether id is selected.
func (c *Controller) IsSelected(id int64) bool {
	_, ok := c.selected[id]
	return ok
}

// SelectionCount returns how many records are selected.
func (c *Controller) SelectionCount() int {
	return len(c.selected)
}

// Selected returns the selected records in canonical order.
func (c *Controller) Selected() []Record {
	if len(c.selected) == 0 {
		return nil
	}
	out := make([]Record, 0, len(c.selected))
	for _, r := range c.records {
		if _, ok := c.selected[r.ID]; ok {
			out = append(out, r)
		}
	}
	return out
}

// SelectedIDs returns the selected ids in canonical order.
func (c *Controller) SelectedIDs() []int64 {
	sel := c.Selected()
	ids := make([]int64, len(sel))
	for i, r := range sel {
		ids[i] = r.ID
	}
	return ids
}

// --- Archive workflow ---

// ArchiveState returns the workflow position.
func (c *Controller) ArchiveState() ArchiveState {
	return c.archive
}

// OpenArchive moves Idle to Confirming. It refuses an empty selection.
func (c *Controller) OpenArchive() bool {
	if c.archive != ArchiveIdle || len(c.selected) == 0 {
		return false
	}
	c.archive = ArchiveConfirming
	return true
}

// CancelArchive returns Confirming to Idle without any request.
func (c *Controller) CancelArchive() {
	if c.archive == ArchiveConfirming {
		c.archive = ArchiveIdle
	}
}

// BeginArchive moves to Submitting and returns the ids to send. A second call
// while submitting returns ErrArchiveInFlight.
func (c *Controller) BeginArchive() ([]int64, error) {
	switch {
	case c.archive == ArchiveSubmitting:
		return nil, ErrArchiveInFlight
	case len(c.selected) == 0:
		return nil, ErrEmptySelection
	}
	c.archive = ArchiveSubmitting
	return c.SelectedIDs(), nil
}

// SubmitArchive sends the archive request. It does not touch controller state.
func (c *Controller) SubmitArchive(ctx context.Context, ids []int64) error {
	return c.source.ArchiveProperties(ctx, c.sess, ids)
}

// FinishArchive applies the archive result. On success the selection is
// cleared here, before any reload resolves, and true asks the caller to
// reload. On failure the dialog stays open and the selection is kept.
func (c *Controller) FinishArchive(ids []int64, err error) bool {
	if err != nil {
		log.Printf("properties: archive %v failed: %v", ids, err)
		c.archive = ArchiveConfirming
		c.notify(err.Error(), LevelError)
		return false
	}
	c.archive = ArchiveIdle
	c.DeselectAll()
	c.notify(i18n.Plural(c.tr, "properties.archived", len(ids)), LevelSuccess)
	return true
}

// ArchiveSelected runs the whole confirmed archive path synchronously,
// including the follow-up load.
func (c *Controller) ArchiveSelected(ctx context.Context) error {
	if c.archive == ArchiveIdle && !c.OpenArchive() {
		return ErrEmptySelection
	}
	ids, err := c.BeginArchive()
	if err != nil {
		return err
	}
	err = c.SubmitArchive(ctx, ids)
	if c.FinishArchive(ids, err) {
		c.Load(ctx)
	}
	return err
}

func (c *Controller) notify(message string, level Level) {
	if c.notifier == nil {
		return
	}
	c.notifier.Notify(message, level)
}
