package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/educationaltr/study-tracker/internal/application/query"
	"github.com/educationaltr/study-tracker/internal/domain/shared"
	"github.com/educationaltr/study-tracker/internal/domain/streak"
	"github.com/educationaltr/study-tracker/pkg/timeutil"
)

// cliActor is the identity of maintenance commands: full read access.
var cliActor = shared.Actor{IsAdmin: true}

func newStreakCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "streak <username>",
		Short: "Show a student's streak and whether it is at risk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			clock, err := timeutil.NewClock(a.cfg.App.Timezone)
			if err != nil {
				return err
			}

			s, err := a.store.Students.GetByUsername(cmd.Context(), shared.NormalizeUsername(args[0]))
			if err != nil {
				return err
			}

			view, err := query.NewGetStreakHandler(a.store.Streaks, clock, nil).Handle(cmd.Context(), cliActor, s.ID)
			if err != nil {
				return err
			}

			last := view.LastStudyDate
			if last == "" {
				last = "never"
			}
			fmt.Printf("%s (%s)\n", s.FullName, s.Username)
			fmt.Printf("  current:    %d (effective %d)\n", view.CurrentStreak, view.EffectiveStreak)
			fmt.Printf("  longest:    %d\n", view.LongestStreak)
			fmt.Printf("  last study: %s\n", last)
			fmt.Printf("  status:     %s\n", dangerLabel(view.Danger))
			return nil
		},
	}
}

func newStudentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "students",
		Short: "List students with their totals and streaks",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			clock, err := timeutil.NewClock(a.cfg.App.Timezone)
			if err != nil {
				return err
			}

			admin := query.NewAdminHandler(a.store.Students, a.store.Study, a.store.Stats, clock)
			rows, err := admin.Overview(cmd.Context(), cliActor)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Println("no students yet")
				return nil
			}

			printStudents(os.Stdout, rows)
			return nil
		},
	}
}

func printStudents(w io.Writer, rows []query.StudentOverview) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tNAME\tSESSIONS\tHOURS\tEXAM AVG\tSTREAK\tLONGEST\tSTATUS")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t%.2f\t%d\t%d\t%s\n",
			r.Student.Username,
			r.Student.FullName,
			r.Totals.Sessions,
			r.Totals.Hours,
			r.ExamAverage,
			r.Streak.EffectiveStreak,
			r.Streak.LongestStreak,
			dangerLabel(r.Streak.Danger),
		)
	}
	_ = tw.Flush()
}

func dangerLabel(d streak.Danger) string {
	switch d {
	case streak.DangerAtRisk:
		return color.YellowString("at risk")
	case streak.DangerAlreadyBroken:
		return color.RedString("broken")
	default:
		return color.GreenString("safe")
	}
}
