package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/confplanner/reinvent/internal/orchestrator"
)

func newSyncCmd() *cobra.Command {
	var sources []string
	var force bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize sources into the local store",
		Long: `Sync fetches the requested sources (all three by default), diffs
them against the store and applies upserts. Each source gets its own
sync_log row; one source failing never stops the others.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cfg, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			orch := buildOrchestrator(st, cfg)
			report, err := orch.Sync(cmd.Context(), orchestrator.Options{
				Sources: sources,
				Force:   force,
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				printJSON(report)
				return nil
			}

			fmt.Printf("Sync %s\n", report.Status)
			for _, result := range report.Results {
				if result.Status == "failed" {
					fmt.Printf("  %-10s failed: %s\n", result.Source, result.Error)
					continue
				}
				fmt.Printf("  %-10s fetched=%d created=%d updated=%d unchanged=%d\n",
					result.Source, result.Counts.Fetched, result.Counts.Created,
					result.Counts.Updated, result.Counts.Unchanged)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&sources, "source", "s", nil, "Sources to sync (catalog, rss, aws_events); default all")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Bypass the cache and re-fetch")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var src string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the synchronization audit log",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			entries, err := st.ListSyncLog(cmd.Context(), src, limit)
			if err != nil {
				return err
			}

			if jsonOutput {
				printJSON(entries)
				return nil
			}

			if len(entries) == 0 {
				fmt.Println("No sync history. Run `reinvent sync` first.")
				return nil
			}
			for _, entry := range entries {
				when := time.Unix(entry.RunAt, 0).Format("2006-01-02 15:04:05")
				fmt.Printf("%s  %-10s %-7s fetched=%d created=%d updated=%d unchanged=%d",
					when, entry.Source, entry.Status, entry.Fetched,
					entry.Created, entry.Updated, entry.Unchanged)
				if entry.Error != "" {
					fmt.Printf("  error=%s", entry.Error)
				}
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&src, "source", "s", "", "Filter by source (catalog, rss, aws_events)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show")
	return cmd
}
