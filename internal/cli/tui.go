package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/justyntemme/libcat/internal/catalog"
	"github.com/justyntemme/libcat/internal/config"
	"github.com/justyntemme/libcat/internal/logging"
	"github.com/justyntemme/libcat/internal/ui"
)

func (e *env) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [location]",
		Short: "Open the interactive browser",
		Long: `Open the interactive browser, optionally on a given screen.

Locations:
  home, books, authors, genres, recommendations, login, register, profile
  books?search=<term>  books?genre=<genre>  books?author=<author>
  books/<id>  authors/<name>  genres/<name>`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var open string
			if len(args) == 1 {
				open = args[0]
			}
			return e.runTUI(cmd, open)
		},
	}
}

func (e *env) runTUI(cmd *cobra.Command, open string) error {
	start, err := catalog.ParseLocation(open)
	if err != nil {
		return err
	}

	dir, err := config.Dir()
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.ForTUI(e.cfg.Log.File, dir, e.level)
	if err != nil {
		return err
	}
	defer closeLog()

	client, store, err := e.connect(logger)
	if err != nil {
		return err
	}

	logger.Info("starting", "server", client.BaseURL(), "open", start.String())

	app := ui.NewApp(ui.Options{
		Client:  client,
		Session: store,
		UI:      e.cfg.UI,
		Start:   start,
		Logger:  logger,
		SaveTheme: func(name string) error {
			return e.store.Set("ui.theme", name)
		},
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run interface: %w", err)
	}
	return nil
}
