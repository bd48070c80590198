package main

import (
	"fmt"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/DaylightE/Log-Highlighter/internal/logging"
	"github.com/DaylightE/Log-Highlighter/internal/profile"
	"github.com/DaylightE/Log-Highlighter/internal/store"
	"github.com/DaylightE/Log-Highlighter/internal/tui"
)

func viewCmd(g *globals) *cobra.Command {
	var timezone string
	cmd := &cobra.Command{
		Use:   "view <file|-|url>",
		Short: "Open a log in the interactive viewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			caps, err := capabilities(cfg.Features)
			if err != nil {
				return err
			}
			loc, err := location(timezone)
			if err != nil {
				return err
			}

			// The terminal belongs to Bubble Tea, so logs go to a file.
			logger, logFile, err := logging.OpenFile(cfg.LogPath(), cfg.LogLevel)
			if err != nil {
				return err
			}
			defer logFile.Close()

			db, err := store.NewSQLiteStore(cfg.StorePath())
			if err != nil {
				return fmt.Errorf("cannot open database: %w", err)
			}
			defer db.Close()

			defaults := store.DefaultPreferences()
			defaults.Extras = cfg.Defaults.Extras
			defaults.LocalTimes = cfg.Defaults.LocalTimes
			defaults.Compact = cfg.Defaults.Compact
			db.SetDefaults(defaults)

			opts := tui.Options{
				Source:       args[0],
				HTTPClient:   &http.Client{Timeout: cfg.Profile.Timeout},
				Capabilities: caps,
				Defaults:     defaults,
				Location:     loc,
				Store:        db,
				Logger:       logger,
			}
			if cfg.Profile.Enabled {
				opts.Profiles = profile.NewClient(profile.Options{
					BaseURL:           cfg.Profile.BaseURL,
					HTTPClient:        &http.Client{Timeout: cfg.Profile.Timeout},
					RequestsPerSecond: cfg.Profile.RequestsPerSecond,
					Burst:             cfg.Profile.Burst,
					Concurrency:       cfg.Profile.Concurrency,
					CacheTTL:          cfg.Profile.CacheTTL,
					Cache:             db,
					Logger:            logger,
				})
			}

			appModel := tui.NewAppModel(opts)
			p := tea.NewProgram(&appModel, tea.WithAltScreen())
			finalModel, err := p.Run()
			if err != nil {
				return fmt.Errorf("alas, there's been an error: %w", err)
			}
			if m, ok := finalModel.(*tui.AppModel); ok && m.Err != nil {
				return m.Err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&timezone, "timezone", "", "Zone to convert timestamps into (default: local)")
	return cmd
}
