package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dwellingly/dwellingly-cli/internal/cmd"
	"github.com/dwellingly/dwellingly-cli/internal/config"
	"github.com/dwellingly/dwellingly-cli/internal/i18n"
	"github.com/dwellingly/dwellingly-cli/internal/session"
	"github.com/dwellingly/dwellingly-cli/internal/ui"
)

func main() {
	var view string
	root := &cobra.Command{
		Use:   "dwellingly",
		Short: "Dwellingly - property administration",
		Long:  "Dwellingly CLI: browse, search and archive properties, and file issues.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(view)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Flags().StringVar(&view, "view", "", "start in a view ("+strings.Join(ui.ViewNames(), ", ")+")")

	root.AddCommand(cmd.LoginCmd())
	root.AddCommand(cmd.PropertiesCmd())
	root.AddCommand(cmd.WhoamiCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
	log.SetOutput(io.Discard)
}

func runTUI(view string) error {
	cfg, err := config.Load()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if !isInteractiveTerminal(os.Stdin) || !isInteractiveTerminal(os.Stdout) {
			fmt.Println("not logged in. run 'dwellingly login' first.")
			return err
		}
		if err := cmd.RunInteractiveLogin(os.Stdin, os.Stdout, ""); err != nil {
			return err
		}
		if cfg, err = config.Load(); err != nil {
			return err
		}
	}

	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "dwellingly")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
	}

	source, closeSource := cmd.PropertySource(cfg)
	defer closeSource()

	app := ui.NewApp(ui.Options{
		Source:     source,
		Session:    session.New(cfg.Token),
		Translator: i18n.NewTranslator(cfg.Locale),
		View:       view,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func isInteractiveTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
