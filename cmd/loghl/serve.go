package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/DaylightE/Log-Highlighter/internal/server"
	"github.com/DaylightE/Log-Highlighter/internal/store"
)

func serveCmd(g *globals) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analyze API and metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			caps, err := capabilities(cfg.Features)
			if err != nil {
				return err
			}
			maxBody, err := cfg.Server.MaxBodyBytes()
			if err != nil {
				return err
			}
			logger := stderrLogger(cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(server.Options{
				Addr:              cfg.Server.Addr,
				MaxBodyBytes:      maxBody,
				ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
				Capabilities:      caps,
				Logger:            logger,
			})
			logger.Info("starting server", "addr", cfg.Server.Addr, "max_body", humanize.Bytes(uint64(maxBody)))
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}

func cacheCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or prune the profile cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show how many profiles are cached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(g, func(cfg storeConfig, db *store.SQLiteStore) error {
				n, err := db.CountProfiles(cmd.Context())
				if err != nil {
					return fmt.Errorf("counting profiles: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s cached profiles in %s\n", humanize.Comma(int64(n)), cfg.path)
				return nil
			})
		},
	})

	var olderThan time.Duration
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete cached profiles older than the cache TTL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(g, func(cfg storeConfig, db *store.SQLiteStore) error {
				age := cfg.ttl
				if olderThan > 0 {
					age = olderThan
				}
				cutoff := time.Now().Add(-age)
				n, err := db.PruneProfiles(cmd.Context(), cutoff)
				if err != nil {
					return fmt.Errorf("pruning profiles: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s profiles fetched before %s\n", humanize.Comma(n), humanize.Time(cutoff))
				return nil
			})
		},
	}
	prune.Flags().DurationVar(&olderThan, "older-than", 0, "Age limit (default: profile.cache_ttl)")
	cmd.AddCommand(prune)
	return cmd
}

type storeConfig struct {
	path string
	ttl  time.Duration
}

func withStore(g *globals, fn func(storeConfig, *store.SQLiteStore) error) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	db, err := store.NewSQLiteStore(cfg.StorePath())
	if err != nil {
		return fmt.Errorf("cannot open database: %w", err)
	}
	defer db.Close()
	return fn(storeConfig{path: cfg.StorePath(), ttl: cfg.Profile.CacheTTL}, db)
}
