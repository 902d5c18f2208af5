package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"recroute/internal/deps"
	"recroute/internal/graph"
	"recroute/internal/journal"
	"recroute/internal/runlock"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check binaries, graph reachability, and the last run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			fmt.Fprintln(out, renderSectionHeader("Dependencies", colorize))
			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			for _, status := range statuses {
				message := status.Command
				if !status.Available {
					message = status.Detail
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, depStatusKind(status), message, colorize))
			}

			fmt.Fprintf(out, "%sReconfigure ready: %s\n", statusIndent, yesNo(len(deps.MissingRequired(statuses)) == 0))

			fmt.Fprintln(out, renderSectionHeader("Graph", colorize))
			provider, err := ctx.provider(false)
			var groups []graph.LinkGroup
			if err == nil {
				groups, err = provider.ListLinkGroups(cmd.Context())
			}
			if err != nil {
				fmt.Fprintln(out, renderStatusLine("PipeWire", statusError, err.Error(), colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("PipeWire", statusOK, fmt.Sprintf("%d link groups", len(groups)), colorize))
				present := make(map[string]bool)
				for _, device := range graph.Devices(groups) {
					present[device] = true
				}
				watched := []struct{ label, device string }{
					{"Recorder", cfg.Devices.Recorder},
					{"Voice chat", cfg.Devices.VoiceChat},
					{"Effects", cfg.Devices.EffectsSource},
				}
				for _, w := range watched {
					kind := statusWarn
					message := w.device + " has no links"
					if present[w.device] {
						kind, message = statusOK, w.device
					}
					fmt.Fprintln(out, renderStatusLine(w.label, kind, message, colorize))
				}
			}

			fmt.Fprintln(out, renderSectionHeader("Runs", colorize))
			busy, err := runlock.Busy(cfg.LockPath())
			switch {
			case err != nil:
				fmt.Fprintln(out, renderStatusLine("Lock", statusWarn, err.Error(), colorize))
			case busy:
				fmt.Fprintln(out, renderStatusLine("Lock", statusInfo, "a run is in progress", colorize))
			default:
				fmt.Fprintln(out, renderStatusLine("Lock", statusOK, "idle", colorize))
			}

			store, err := journal.Open(cfg)
			if err != nil {
				fmt.Fprintln(out, renderStatusLine("Last run", statusWarn, err.Error(), colorize))
				return nil
			}
			defer store.Close()
			last, err := store.Latest(cmd.Context())
			switch {
			case err != nil:
				fmt.Fprintln(out, renderStatusLine("Last run", statusWarn, err.Error(), colorize))
			case last == nil:
				fmt.Fprintln(out, renderStatusLine("Last run", statusInfo, "none recorded", colorize))
			default:
				kind := statusOK
				if !last.Succeeded() {
					kind = statusError
				}
				parts := []string{last.Template, last.State, last.StartedAt.Local().Format(time.DateTime)}
				if last.ErrorMessage != "" {
					parts = append(parts, last.ErrorMessage)
				}
				fmt.Fprintln(out, renderStatusLine("Last run", kind, strings.Join(parts, " | "), colorize))
			}
			return nil
		},
	}
}
