package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"recroute/internal/journal"
	"recroute/internal/session"
)

func newRouteCommand(ctx *commandContext) *cobra.Command {
	var templateFlag string
	var dryRun bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "route",
		Short: "Tear down recorder links and install a route template",
		Long: "Query the live graph, disconnect everything attached to the recorder inputs\n" +
			"and the watched voice and effects outputs, then wire the selected template.\n" +
			"With --dry-run the graph is queried but no link is changed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			template := ctx.templateOrDefault(templateFlag)
			result, err := ctx.reconfigure(cmd.Context(), template, journal.TriggerManual, dryRun)
			if result == nil {
				return err
			}
			if jsonOutput {
				if encErr := writeJSON(cmd, toResultJSON(result)); encErr != nil {
					return encErr
				}
				return err
			}
			printResult(cmd.OutOrStdout(), result, dryRun)
			return err
		},
	}

	cmd.Flags().StringVarP(&templateFlag, "template", "t", "", "Route template (analog, multichannel); defaults to routing.template")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log the disconnects and connects without changing the graph")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the run result as JSON")
	return cmd
}

func printResult(out io.Writer, result *session.Result, dryRun bool) {
	mode := ""
	if dryRun {
		mode = " (dry run)"
	}
	fmt.Fprintf(out, "Run %s%s: template %s, state %s\n", result.RunID, mode, result.Template, result.State)
	if result.Err != nil {
		fmt.Fprintf(out, "Failed during %s: %v\n", result.FailedFrom, result.Err)
	}

	if len(result.Slots) > 0 {
		names := make([]string, 0, len(result.Slots))
		for name := range result.Slots {
			names = append(names, name)
		}
		sort.Strings(names)
		rows := make([][]string, 0, len(names))
		for _, name := range names {
			rows = append(rows, []string{name, result.Slots[name].Address()})
		}
		fmt.Fprintln(out, renderTable([]string{"Slot", "Captured Port"}, rows, nil))
	}

	if len(result.Installed) > 0 || len(result.Skipped) > 0 {
		rows := make([][]string, 0, len(result.Installed)+len(result.Skipped))
		for _, inst := range result.Installed {
			rows = append(rows, []string{inst.Route, "installed", inst.Output.Address() + " -> " + inst.Input.Address()})
		}
		for _, skip := range result.Skipped {
			rows = append(rows, []string{skip.Route, "skipped", skip.Reason})
		}
		fmt.Fprintln(out, renderTable([]string{"Route", "Outcome", "Detail"}, rows, nil))
	}
}
