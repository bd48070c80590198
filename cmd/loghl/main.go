// Package main is the entry point for the loghl CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/DaylightE/Log-Highlighter/internal/config"
	"github.com/DaylightE/Log-Highlighter/internal/logging"
	"github.com/DaylightE/Log-Highlighter/internal/session"
	"github.com/DaylightE/Log-Highlighter/internal/source"
)

// Set by ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globals are the persistent flags shared by every subcommand.
type globals struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "loghl",
		Short:         "Highlight and filter moderation chat logs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Path to configuration file")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.AddCommand(
		versionCmd(),
		viewCmd(g),
		renderCmd(g),
		statsCmd(g),
		exportCmd(g),
		serveCmd(g),
		cacheCmd(g),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "loghl %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

// loadConfig resolves, loads and validates the configuration. The
// --log-level flag overrides the file.
func (g *globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.ResolvePath(g.configPath))
	if err != nil {
		return nil, err
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// stderrLogger is used by every command that does not own the terminal.
func stderrLogger(cfg *config.Config) *slog.Logger {
	return logging.New(os.Stderr, cfg.LogLevel)
}

// capabilities turns the features block into session capabilities: the
// preset first, then any single overrides.
func capabilities(f config.Features) (session.Capabilities, error) {
	caps, err := session.Preset(f.Preset)
	if err != nil {
		return session.Capabilities{}, err
	}
	set := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	set(&caps.RoleToggles, f.RoleToggles)
	set(&caps.HideFilter, f.HideFilter)
	set(&caps.AdsFilter, f.AdsFilter)
	set(&caps.Navigation, f.Navigation)
	set(&caps.LocalTimes, f.LocalTimes)
	return caps, nil
}

// loadDocument reads a log from a path, "-" or a URL.
func loadDocument(ctx context.Context, cfg *config.Config, src string) (source.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	client := &http.Client{Timeout: cfg.Profile.Timeout}
	doc, err := source.Load(ctx, client, src)
	if err != nil {
		return source.Document{}, fmt.Errorf("loading %s: %w", src, err)
	}
	return doc, nil
}

// location parses a --timezone value; "" is the local zone.
func location(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}
