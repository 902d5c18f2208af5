package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"recroute/internal/session"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type resultJSON struct {
	RunID      string            `json:"run_id"`
	Template   string            `json:"template"`
	State      string            `json:"state"`
	FailedFrom string            `json:"failed_from,omitempty"`
	Error      string            `json:"error,omitempty"`
	Slots      map[string]string `json:"slots"`
	Installed  []installedJSON   `json:"installed"`
	Skipped    []skippedJSON     `json:"skipped"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
}

type installedJSON struct {
	Route  string `json:"route"`
	Output string `json:"output"`
	Input  string `json:"input"`
}

type skippedJSON struct {
	Route  string `json:"route"`
	Reason string `json:"reason"`
}

func toResultJSON(result *session.Result) resultJSON {
	out := resultJSON{
		RunID:      result.RunID,
		Template:   result.Template,
		State:      string(result.State),
		FailedFrom: string(result.FailedFrom),
		Slots:      make(map[string]string, len(result.Slots)),
		Installed:  make([]installedJSON, 0, len(result.Installed)),
		Skipped:    make([]skippedJSON, 0, len(result.Skipped)),
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
	}
	if result.Err != nil {
		out.Error = result.Err.Error()
	}
	for name, port := range result.Slots {
		out.Slots[name] = port.Address()
	}
	for _, inst := range result.Installed {
		out.Installed = append(out.Installed, installedJSON{Route: inst.Route, Output: inst.Output.Address(), Input: inst.Input.Address()})
	}
	for _, skip := range result.Skipped {
		out.Skipped = append(out.Skipped, skippedJSON{Route: skip.Route, Reason: skip.Reason})
	}
	return out
}
