package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/dwellingly/dwellingly-cli/internal/api"
	"github.com/dwellingly/dwellingly-cli/internal/cache"
	"github.com/dwellingly/dwellingly-cli/internal/config"
	"github.com/dwellingly/dwellingly-cli/internal/i18n"
	"github.com/dwellingly/dwellingly-cli/internal/properties"
	"github.com/dwellingly/dwellingly-cli/internal/session"
)

// PropertiesCmd returns the `dwellingly properties` command group.
func PropertiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "properties",
		Aliases: []string{"props"},
		Short:   "List and archive properties",
	}
	cmd.AddCommand(propertiesListCmd())
	cmd.AddCommand(propertiesArchiveCmd())
	return cmd
}

func propertiesListCmd() *cobra.Command {
	var (
		search   string
		archived bool
		cached   bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List properties",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			out := cmd.OutOrStdout()
			notes := &cliNotifier{out: out}

			var (
				ctrl *properties.Controller
				tr   i18n.Translator
			)
			if cached {
				// The cache needs no token, so a missing config file is fine.
				cfg, err := config.Read()
				if err != nil && !errors.Is(err, os.ErrNotExist) {
					return err
				}
				tr = i18n.NewTranslator(cfg.Locale)
				snap, err := readSnapshot(ctx, cfg.CachePath)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "cached %s from %s\n", snap.FetchedAt.Format(time.RFC3339), snap.Source)
				ctrl = properties.NewController(snapshotSource{snap.Properties}, session.Session{}, notes, properties.WithTranslator(tr))
			} else {
				env, err := loadEnv()
				if err != nil {
					return err
				}
				defer env.close()
				tr = env.tr
				ctrl = env.controller(notes)
			}

			if !ctrl.Load(ctx) {
				return notes.failure("list properties")
			}
			if archived {
				ctrl.ToggleShowArchived()
			}
			ctrl.SetSearch(search)

			rows := ctrl.Displayed()
			if len(rows) == 0 {
				fmt.Fprintln(out, tr.T("properties.empty"))
				return nil
			}
			fmt.Fprintln(out, renderPropertyTable(tr, rows))
			fmt.Fprintln(out, tr.T("properties.count", len(rows), len(ctrl.Records())))
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by name, address or property manager")
	cmd.Flags().BoolVarP(&archived, "archived", "a", false, "include archived properties")
	cmd.Flags().BoolVar(&cached, "cached", false, "read the last fetched snapshot instead of the API")
	return cmd
}

func propertiesArchiveCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "archive <id>...",
		Short: "Archive properties by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			out := cmd.OutOrStdout()

			env, err := loadEnv()
			if err != nil {
				return err
			}
			defer env.close()

			notes := &cliNotifier{out: out}
			ctrl := env.controller(notes)
			if !ctrl.Load(ctx) {
				return notes.failure("list properties")
			}

			byID := make(map[int64]properties.Record, len(ctrl.Records()))
			for _, r := range ctrl.Records() {
				byID[r.ID] = r
			}
			for _, id := range ids {
				r, ok := byID[id]
				switch {
				case !ok:
					return fmt.Errorf("unknown property id %d", id)
				case r.Archived:
					return fmt.Errorf("property %d is already archived", id)
				}
				ctrl.SelectRow(r)
			}

			selected := ctrl.Selected()
			fmt.Fprintln(out, i18n.Plural(env.tr, "properties.archive.title", len(selected)))
			fmt.Fprintln(out, env.tr.T("properties.archive.intro", len(selected)))
			for _, r := range selected {
				fmt.Fprintf(out, "  - %s (#%d)\n", r.Name, r.ID)
			}
			if !yes && !confirm(cmd.InOrStdin(), out, env.tr.T("properties.archive.question")) {
				fmt.Fprintln(out, "aborted")
				return nil
			}

			if err := ctrl.ArchiveSelected(ctx); err != nil {
				return fmt.Errorf("archive properties: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// --- Shared Wiring ---

type cmdEnv struct {
	cfg    *config.Config
	client *api.Client
	sess   session.Session
	store  *cache.Store
	tr     i18n.Translator
}

func loadEnv() (*cmdEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("not logged in: %w", err)
	}
	return newEnv(cfg), nil
}

func newEnv(cfg *config.Config) *cmdEnv {
	env := &cmdEnv{
		cfg:    cfg,
		client: api.NewClient(cfg.APIURL, cfg.HTTPTimeout),
		sess:   session.New(cfg.Token),
		tr:     i18n.NewTranslator(cfg.Locale),
	}
	if cfg.CachePath != "" {
		store, err := cache.Open(context.Background(), cfg.CachePath)
		if err != nil {
			log.Printf("cache: disabled: %v", err)
		} else {
			env.store = store
		}
	}
	return env
}

// PropertySource returns the API-backed source for cfg. Successful lists are
// recorded to the snapshot cache when one is configured. The returned func
// closes the cache.
func PropertySource(cfg *config.Config) (properties.Source, func()) {
	env := newEnv(cfg)
	return env.source(), env.close
}

func (e *cmdEnv) source() properties.Source {
	if e.store == nil {
		return e.client
	}
	return &snapshotRecorder{Source: e.client, store: e.store, origin: e.client.BaseURL()}
}

func (e *cmdEnv) controller(n properties.Notifier) *properties.Controller {
	return properties.NewController(e.source(), e.sess, n, properties.WithTranslator(e.tr))
}

func (e *cmdEnv) close() {
	if e.store != nil {
		_ = e.store.Close()
	}
}

// snapshotRecorder stores every successful list result in the cache.
type snapshotRecorder struct {
	properties.Source
	store  *cache.Store
	origin string
}

func (s *snapshotRecorder) ListProperties(ctx context.Context, sess session.Session) ([]api.Property, error) {
	items, err := s.Source.ListProperties(ctx, sess)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, s.origin, items, time.Now()); err != nil {
		log.Printf("cache: save snapshot: %v", err)
	}
	return items, nil
}

var errReadOnlySnapshot = errors.New("cached snapshot is read-only")

// snapshotSource serves a cached list and refuses mutations.
type snapshotSource struct {
	items []api.Property
}

func (s snapshotSource) ListProperties(context.Context, session.Session) ([]api.Property, error) {
	return s.items, nil
}

func (s snapshotSource) ArchiveProperties(context.Context, session.Session, []int64) error {
	return errReadOnlySnapshot
}

func readSnapshot(ctx context.Context, path string) (cache.Snapshot, error) {
	store, err := cache.Open(ctx, path)
	if err != nil {
		return cache.Snapshot{}, err
	}
	defer store.Close()
	snap, err := store.Load(ctx)
	if errors.Is(err, cache.ErrNoSnapshot) {
		return snap, fmt.Errorf("%w: run 'dwellingly properties list' online first", err)
	}
	return snap, err
}

// cliNotifier prints successes and keeps the last error for the exit status.
type cliNotifier struct {
	out     io.Writer
	lastErr string
}

func (n *cliNotifier) Notify(message string, level properties.Level) {
	if level == properties.LevelError {
		n.lastErr = message
		return
	}
	fmt.Fprintln(n.out, message)
}

func (n *cliNotifier) failure(op string) error {
	if n.lastErr == "" {
		return fmt.Errorf("%s failed", op)
	}
	return fmt.Errorf("%s: %s", op, n.lastErr)
}

// --- Output ---

func renderPropertyTable(tr i18n.Translator, rows []properties.Record) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#273540"))).
		Headers(
			"ID",
			tr.T("properties.column.name"),
			tr.T("properties.column.managers"),
			tr.T("properties.column.address"),
			tr.T("properties.column.tenants"),
			tr.T("properties.column.created"),
		)
	for _, r := range rows {
		name := r.Name
		if r.Archived {
			name += " (archived)"
		}
		created := "-"
		if !r.CreatedAt.IsZero() {
			created = r.CreatedAt.Format("2006-01-02")
		}
		t.Row(strconv.FormatInt(r.ID, 10), name, r.Managers(), r.Address, strconv.Itoa(r.TenantCount), created)
	}
	return t.String()
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	seen := map[int64]bool{}
	for _, a := range args {
		for _, part := range strings.Split(a, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				return nil, fmt.Errorf("invalid property id %q", part)
			}
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return nil, properties.ErrEmptySelection
	}
	return ids, nil
}

func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
