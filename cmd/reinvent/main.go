package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/confplanner/reinvent/internal/cache"
	"github.com/confplanner/reinvent/internal/config"
	"github.com/confplanner/reinvent/internal/orchestrator"
	"github.com/confplanner/reinvent/internal/source"
	"github.com/confplanner/reinvent/internal/store"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"

	jsonOutput bool
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reinvent",
		Short: "AWS re:Invent session planner",
		Long: `Reinvent aggregates conference-session data from the catalog API,
the announcements RSS feed and the official agenda page into a single
queryable local store, and keeps it current without re-fetching on
every read.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			if jsonOutput {
				printJSON(map[string]string{
					"version": version,
					"commit":  commit,
					"date":    buildDate,
				})
			} else {
				fmt.Printf("reinvent %s (%s, %s)\n", version, commit, buildDate)
			}
		},
	})

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newSessionsCmd())
	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newFiltersCmd())
	rootCmd.AddCommand(newRssCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newFavCmd())
	rootCmd.AddCommand(newExportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize config and database",
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := config.GetConfigDir()
			if err != nil {
				return err
			}
			dataDir, err := config.GetDataDir()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(configDir, 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if err := os.MkdirAll(dataDir, 0o755); err != nil {
				return fmt.Errorf("create data directory: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			if jsonOutput {
				printJSON(map[string]any{
					"ok":         true,
					"config_dir": configDir,
					"data_dir":   dataDir,
					"db_path":    cfg.DBPath,
				})
			} else {
				fmt.Printf("Initialized.\n  config: %s\n  data:   %s\n  db:     %s\n", configDir, dataDir, cfg.DBPath)
			}
			return nil
		},
	}
}

// openStore loads the config and opens the database.
func openStore() (*store.Store, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, err
	}
	if dataDir, err := config.GetDataDir(); err == nil {
		_ = os.MkdirAll(dataDir, 0o755)
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, config.Config{}, err
	}
	return st, cfg, nil
}

// buildOrchestrator wires the three adapters, a cache and the store
// into a ready sync orchestrator.
func buildOrchestrator(st *store.Store, cfg config.Config) *orchestrator.Orchestrator {
	return orchestrator.New(st, cache.New(cfg.CacheTTL),
		source.NewCatalogSource(cfg.CatalogURL, cfg.HTTPTimeout),
		source.NewRssSource(cfg.RSSURL, cfg.HTTPTimeout),
		source.NewAgendaSource(cfg.AgendaURL, cfg.HTTPTimeout),
	)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
	}
}
