package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/confplanner/reinvent/internal/store"
)

func newSessionsCmd() *cobra.Command {
	var filters store.SessionFilters

	cmd := &cobra.Command{
		Use:   "sessions [query]",
		Short: "List sessions, optionally filtered",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				filters.Query = args[0]
			}

			st, _, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			sessions, err := st.ListSessions(cmd.Context(), filters)
			if err != nil {
				return err
			}

			if jsonOutput {
				printJSON(sessions)
				return nil
			}

			if len(sessions) == 0 {
				fmt.Println("No sessions found. Run `reinvent sync` first or relax the filters.")
				return nil
			}
			fmt.Printf("Found %d session(s):\n\n", len(sessions))
			for _, sess := range sessions {
				short := sess.ShortID
				if short == "" {
					short = sess.SessionID
				}
				fmt.Printf("%s - %s\n", short, sess.Title)
				fmt.Printf("  %s %s-%s | %s %s | level %d | %s\n",
					sess.Day, sess.StartDateTime, sess.EndDateTime,
					sess.Venue, sess.Room, sess.Level, sess.SessionType)
				if len(sess.Speakers) > 0 {
					fmt.Printf("  speakers: %s\n", strings.Join(sess.Speakers, ", "))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filters.Day, "day", "", "Filter by day (Monday..Friday)")
	cmd.Flags().StringVar(&filters.Venue, "venue", "", "Filter by venue substring")
	cmd.Flags().IntVar(&filters.Level, "level", 0, "Filter by level (100/200/300/400)")
	cmd.Flags().StringVar(&filters.Topic, "topic", "", "Filter by topic substring")
	cmd.Flags().StringVar(&filters.Service, "service", "", "Filter by AWS service substring")
	cmd.Flags().StringVar(&filters.Area, "area", "", "Filter by area of interest substring")
	cmd.Flags().StringVar(&filters.Type, "type", "", "Filter by session type substring")
	cmd.Flags().IntVarP(&filters.Limit, "limit", "n", 50, "Maximum sessions to show")
	return cmd
}

func newSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session <id-or-short-id>",
		Short: "Show one session's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			sess, err := st.GetSession(cmd.Context(), args[0])
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("session not found: %s", args[0])
			}
			if err != nil {
				return err
			}

			if jsonOutput {
				printJSON(sess)
				return nil
			}

			fmt.Printf("%s - %s\n\n", sess.ShortID, sess.Title)
			fmt.Printf("Session ID: %s\n", sess.SessionID)
			fmt.Printf("Schedule:   %s %s - %s\n", sess.Day, sess.StartDateTime, sess.EndDateTime)
			fmt.Printf("Location:   %s, %s\n", sess.Venue, sess.Room)
			fmt.Printf("Level:      %d\n", sess.Level)
			fmt.Printf("Type:       %s\n", sess.SessionType)
			if len(sess.Speakers) > 0 {
				fmt.Printf("Speakers:   %s\n", strings.Join(sess.Speakers, ", "))
			}
			if len(sess.Topics) > 0 {
				fmt.Printf("Topics:     %s\n", strings.Join(sess.Topics, ", "))
			}
			if len(sess.Services) > 0 {
				fmt.Printf("Services:   %s\n", strings.Join(sess.Services, ", "))
			}
			if len(sess.AreasOfInterest) > 0 {
				fmt.Printf("Areas:      %s\n", strings.Join(sess.AreasOfInterest, ", "))
			}
			if sess.Abstract != "" {
				fmt.Printf("\n%s\n", sess.Abstract)
			}
			return nil
		},
	}
}

func newFiltersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "List the distinct filter values across stored sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			values, err := st.ListFilterValues(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput {
				printJSON(values)
				return nil
			}

			printValues := func(name string, vals []string) {
				if len(vals) == 0 {
					return
				}
				fmt.Printf("%s:\n", name)
				for _, v := range vals {
					fmt.Printf("  - %s\n", v)
				}
			}
			printValues("Days", values.Days)
			printValues("Venues", values.Venues)
			if len(values.Levels) > 0 {
				fmt.Println("Levels:")
				for _, level := range values.Levels {
					fmt.Printf("  - %d\n", level)
				}
			}
			printValues("Types", values.Types)
			printValues("Topics", values.Topics)
			printValues("Services", values.Services)
			printValues("Areas of interest", values.Areas)
			return nil
		},
	}
}

func newRssCmd() *cobra.Command {
	var category string
	var limit int

	cmd := &cobra.Command{
		Use:   "rss",
		Short: "List stored feed announcements, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			items, err := st.ListRssItems(cmd.Context(), category, limit)
			if err != nil {
				return err
			}

			if jsonOutput {
				printJSON(items)
				return nil
			}

			if len(items) == 0 {
				fmt.Println("No feed items. Run `reinvent sync -s rss` first.")
				return nil
			}
			for _, item := range items {
				fmt.Printf("%s\n", item.Title)
				fmt.Printf("  published: %s", item.PublishedAt)
				if item.Category != "" {
					fmt.Printf(" | category: %s", item.Category)
				}
				if item.SessionID != "" {
					fmt.Printf(" | session: %s", item.SessionID)
				}
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Filter by category substring")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum items to show")
	return cmd
}

func newEventsCmd() *cobra.Command {
	var day, eventType string
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List official agenda events",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			events, err := st.ListAwsEvents(cmd.Context(), day, eventType, limit)
			if err != nil {
				return err
			}

			if jsonOutput {
				printJSON(events)
				return nil
			}

			if len(events) == 0 {
				fmt.Println("No agenda events. Run `reinvent sync -s aws_events` first.")
				return nil
			}
			currentDay := ""
			for _, ev := range events {
				if ev.Day != currentDay {
					currentDay = ev.Day
					fmt.Printf("\n%s\n", currentDay)
				}
				fmt.Printf("  %s  %s [%s]", ev.StartTime, ev.Title, ev.EventType)
				if ev.Venue != "" {
					fmt.Printf(" @ %s", ev.Venue)
				}
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&day, "day", "d", "", "Filter by day substring")
	cmd.Flags().StringVarP(&eventType, "type", "t", "", "Filter by event type (Keynote, Expo, Social, Meal, General)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum events to show")
	return cmd
}
