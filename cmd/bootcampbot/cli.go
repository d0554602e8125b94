package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	configloader "github.com/foxseedlab/bootcampbot/external/config"
	repositoryimpl "github.com/foxseedlab/bootcampbot/external/repository"
	"github.com/foxseedlab/bootcampbot/internal/calendar"
	"github.com/foxseedlab/bootcampbot/internal/leaderboard"
	"github.com/foxseedlab/bootcampbot/internal/repository"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

// withRepository opens the configured store without connecting to Discord.
func withRepository(fn func(repository.Repository) error) error {
	cfg, err := configloader.LoadStorage()
	if err != nil {
		return err
	}
	injector := do.New()
	do.ProvideValue(injector, cfg)
	repositoryimpl.RegisterDI(injector)
	defer shutdownDI(injector)

	repo, err := do.Invoke[repository.Repository](injector)
	if err != nil {
		return err
	}
	return fn(repo)
}

func newSessionsCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List stored sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return withRepository(func(repo repository.Repository) error {
				sessions, err := repo.LoadSessions(ctx)
				if err != nil {
					return err
				}
				sortSessions(sessions)
				return writeOutput(cmd.OutOrStdout(), output, sessions)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputYAML, "output format: json|yaml")
	return cmd
}

func newSchedulesCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "schedules",
		Short: "List stored weekly schedules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return withRepository(func(repo repository.Repository) error {
				schedules, err := repo.LoadAllSchedules(ctx)
				if err != nil {
					return err
				}
				sort.Slice(schedules, func(i, j int) bool { return schedules[i].User < schedules[j].User })
				return writeOutput(cmd.OutOrStdout(), output, schedules)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputYAML, "output format: json|yaml")
	return cmd
}

func newLeaderboardCmd() *cobra.Command {
	var output string
	var month, year int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the attendance leaderboard of a month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			today := calendar.Today(time.Local)
			if month == 0 {
				month = int(today.Month)
			}
			if year == 0 {
				year = today.Year
			}
			if month < 1 || month > 12 {
				return fmt.Errorf("--month must be between 1 and 12, got %d", month)
			}
			ctx := cmd.Context()
			return withRepository(func(repo repository.Repository) error {
				sessions, err := repo.LoadSessions(ctx)
				if err != nil {
					return err
				}
				board := boardFromSessions(time.Month(month), year, sessions, today)
				return writeOutput(cmd.OutOrStdout(), output, board)
			})
		},
	}
	cmd.Flags().IntVar(&month, "month", 0, "month number, defaults to the current month")
	cmd.Flags().IntVar(&year, "year", 0, "year, defaults to the current year")
	cmd.Flags().StringVarP(&output, "output", "o", outputYAML, "output format: json|yaml")
	return cmd
}

func boardFromSessions(month time.Month, year int, sessions []repository.Session, until calendar.Date) *leaderboard.Leaderboard {
	attendances := make([]leaderboard.Attendance, 0, len(sessions))
	for _, s := range sessions {
		attendances = append(attendances, leaderboard.Attendance{Date: s.Date, Participants: s.Participants})
	}
	return leaderboard.FromAttendances(month, year, attendances, until)
}

func sortSessions(sessions []repository.Session) {
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].Date.Equal(sessions[j].Date) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].Date.Before(sessions[j].Date)
	})
}

func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q, want json or yaml", format)
	}
}
