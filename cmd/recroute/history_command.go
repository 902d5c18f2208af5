package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"recroute/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string
	var prune int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent reconfigure runs from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := journal.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if prune > 0 {
				removed, err := store.Prune(cmd.Context(), prune)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Pruned %d run(s), kept the newest %d\n", removed, prune)
				return nil
			}

			if id := strings.TrimSpace(runID); id != "" {
				outcomes, err := store.Outcomes(cmd.Context(), id)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, outcomes)
				}
				if len(outcomes) == 0 {
					fmt.Fprintf(out, "No route outcomes recorded for run %s\n", id)
					return nil
				}
				rows := make([][]string, 0, len(outcomes))
				for _, o := range outcomes {
					detail := o.Reason
					if o.Outcome == journal.OutcomeInstalled {
						detail = o.Output + " -> " + o.Input
					}
					rows = append(rows, []string{strconv.Itoa(o.Position), o.Route, o.Outcome, detail})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Route", "Outcome", "Detail"},
					rows,
					[]columnAlignment{alignRight},
				))
				return nil
			}

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				state := run.State
				if run.FailedFrom != "" {
					state = fmt.Sprintf("%s (from %s)", run.State, run.FailedFrom)
				}
				rows = append(rows, []string{
					run.StartedAt.Local().Format(time.DateTime),
					run.ID,
					run.Template,
					string(run.Trigger),
					state,
					strconv.Itoa(run.RoutesInstalled),
					strconv.Itoa(run.RoutesSkipped),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Started", "Run", "Template", "Trigger", "State", "Installed", "Skipped"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	cmd.Flags().StringVar(&runID, "run", "", "Show the route outcomes of one run")
	cmd.Flags().IntVar(&prune, "prune", 0, "Delete all but the newest N runs")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit runs as JSON")
	return cmd
}
