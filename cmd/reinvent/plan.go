package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/confplanner/reinvent/internal/config"
	"github.com/confplanner/reinvent/internal/ical"
	"github.com/confplanner/reinvent/internal/store"
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage personal schedule events",
	}
	cmd.AddCommand(newPlanAddCmd(), newPlanListCmd(), newPlanRemoveCmd())
	return cmd
}

func newPlanAddCmd() *cobra.Command {
	var ev store.PersonalEvent

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a personal event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ev.Title = args[0]

			st, _, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			id, err := st.AddPersonalEvent(cmd.Context(), ev)
			if err != nil {
				return err
			}
			if jsonOutput {
				printJSON(map[string]string{"id": id})
			} else {
				fmt.Printf("Added personal event %s (%s - %s)\n", id, ev.StartDateTime, ev.EndDateTime)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&ev.StartDateTime, "start", "", "Start (YYYY-MM-DD HH:MM)")
	cmd.Flags().StringVar(&ev.EndDateTime, "end", "", "End (YYYY-MM-DD HH:MM)")
	cmd.Flags().StringVar(&ev.Description, "description", "", "Description")
	cmd.Flags().StringVar(&ev.Location, "location", "", "Location")
	cmd.Flags().StringVar(&ev.EventType, "type", "personal", "Event type (meeting, meal, travel, personal, ...)")
	cmd.Flags().StringVar(&ev.Notes, "notes", "", "Additional notes")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newPlanListCmd() *cobra.Command {
	var date, eventType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List personal events",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			events, err := st.ListPersonalEvents(cmd.Context(), date, eventType)
			if err != nil {
				return err
			}
			if jsonOutput {
				printJSON(events)
				return nil
			}
			if len(events) == 0 {
				fmt.Println("No personal events.")
				return nil
			}
			for _, ev := range events {
				fmt.Printf("%s  %s - %s  %s [%s]\n", ev.ID, ev.StartDateTime, ev.EndDateTime, ev.Title, ev.EventType)
				if ev.Location != "" {
					fmt.Printf("    location: %s\n", ev.Location)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Filter by start date prefix (YYYY-MM-DD)")
	cmd.Flags().StringVar(&eventType, "type", "", "Filter by event type")
	return cmd
}

func newPlanRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <event-id>",
		Short: "Delete a personal event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.DeletePersonalEvent(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("personal event not found: %s", args[0])
				}
				return err
			}
			fmt.Println("Deleted.")
			return nil
		},
	}
}

func newFavCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fav",
		Short: "Manage favorite session lists",
	}
	cmd.AddCommand(newFavAddCmd(), newFavListCmd(), newFavRemoveCmd(), newFavNewListCmd())
	return cmd
}

func newFavAddCmd() *cobra.Command {
	var list, notes string
	var priority int

	cmd := &cobra.Command{
		Use:   "add <session-id-or-short-id>",
		Short: "Pin a session to a favorite list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			sessionID, err := st.AddFavorite(cmd.Context(), list, args[0], notes, priority)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("session not found: %s", args[0])
				}
				return err
			}
			fmt.Printf("Pinned %s to %s\n", sessionID, list)
			return nil
		},
	}

	cmd.Flags().StringVarP(&list, "list", "l", "preselection", "Favorite list name")
	cmd.Flags().StringVar(&notes, "notes", "", "Personal notes")
	cmd.Flags().IntVarP(&priority, "priority", "p", 1, "Priority (1 highest)")
	return cmd
}

func newFavListCmd() *cobra.Command {
	var list string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List favorites, grouped by list",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			favorites, err := st.ListFavorites(cmd.Context(), list)
			if err != nil {
				return err
			}
			if jsonOutput {
				printJSON(favorites)
				return nil
			}
			if len(favorites) == 0 {
				fmt.Println("No favorites.")
				return nil
			}
			currentList := ""
			for _, fav := range favorites {
				if fav.ListName != currentList {
					currentList = fav.ListName
					fmt.Printf("\n%s\n", currentList)
				}
				short := fav.ShortID
				if short == "" {
					short = fav.SessionID
				}
				fmt.Printf("  [p%d] %s - %s (%s %s)\n", fav.Priority, short, fav.Title, fav.Day, fav.StartDateTime)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&list, "list", "l", "", "Only this list")
	return cmd
}

func newFavRemoveCmd() *cobra.Command {
	var list string

	cmd := &cobra.Command{
		Use:   "rm <session-id-or-short-id>",
		Short: "Unpin a session from a favorite list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.RemoveFavorite(cmd.Context(), list, args[0]); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("session %s is not in list %s", args[0], list)
				}
				return err
			}
			fmt.Println("Removed.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&list, "list", "l", "preselection", "Favorite list name")
	return cmd
}

func newFavNewListCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "new-list <name>",
		Short: "Create a custom favorite list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.CreateFavoriteList(cmd.Context(), args[0], description); err != nil {
				return err
			}
			fmt.Printf("Created list %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "List description")
	return cmd
}

func newExportCmd() *cobra.Command {
	var list, output string
	var skipPersonal bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export favorites and personal events to an iCal file",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			cal, added, err := ical.Export(cmd.Context(), st, list, !skipPersonal)
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				dataDir, err := config.GetDataDir()
				if err != nil {
					return err
				}
				path = filepath.Join(dataDir, "reinvent_schedule.ics")
			}
			if err := os.WriteFile(path, []byte(cal.Serialize()), 0o644); err != nil {
				return fmt.Errorf("write calendar: %w", err)
			}

			if jsonOutput {
				printJSON(map[string]any{"path": path, "events": added})
			} else {
				fmt.Printf("Exported %d event(s) to %s\n", added, path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&list, "list", "l", "", "Favorite list to export (default all)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (.ics)")
	cmd.Flags().BoolVar(&skipPersonal, "no-personal", false, "Exclude personal events")
	return cmd
}
