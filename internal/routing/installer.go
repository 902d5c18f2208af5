package routing

import (
	"context"
	"errors"
	"log/slog"

	"recroute/internal/graph"
	"recroute/internal/logging"
)

// Installed records one connected route.
type Installed struct {
	Route  string
	Output graph.Port
	Input  graph.Port
}

// Skipped records an optional route that was not wired.
type Skipped struct {
	Route  string
	Reason string
}

// Report summarizes an installation pass.
type Report struct {
	Installed []Installed
	Skipped   []Skipped
}

// Installer connects route tables through a graph provider.
type Installer struct {
	provider graph.Provider
	logger   *slog.Logger
}

// NewInstaller constructs an installer.
func NewInstaller(provider graph.Provider, logger *slog.Logger) *Installer {
	return &Installer{
		provider: provider,
		logger:   logging.NewComponentLogger(logger, "routing"),
	}
}

// Install wires the table's routes in order. A failed required route stops
// the pass and returns a *RouteError; routes already connected stay connected.
// The returned report is valid in both cases.
func (i *Installer) Install(ctx context.Context, table Table, slots SlotLookup) (Report, error) {
	logger := logging.WithContext(ctx, i.logger)
	var report Report
	for _, route := range table.Routes {
		output, input, err := resolve(route, slots)
		if err == nil {
			err = i.provider.Connect(ctx, output, input)
		}
		if err != nil {
			if route.Required {
				return report, &RouteError{Route: route.Name, Err: err}
			}
			report.Skipped = append(report.Skipped, Skipped{Route: route.Name, Reason: err.Error()})
			logging.WarnWithContext(logger, "optional route skipped", "optional_route_skipped",
				logging.String(logging.FieldRoute, route.Name),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "start the device before running recroute to include this route"),
				logging.String(logging.FieldImpact, "audio from this source will not be recorded"),
			)
			continue
		}
		report.Installed = append(report.Installed, Installed{Route: route.Name, Output: output, Input: input})
		logger.Debug("route installed",
			logging.String(logging.FieldRoute, route.Name),
			logging.String("output", output.Address()),
			logging.String("input", input.Address()),
		)
	}
	logger.Info("routes installed",
		logging.String(logging.FieldTemplate, table.Name),
		logging.Int("installed", len(report.Installed)),
		logging.Int("skipped", len(report.Skipped)),
	)
	return report, nil
}

func resolve(route Route, slots SlotLookup) (graph.Port, graph.Port, error) {
	output, err := route.Source.Resolve(slots, graph.Capture)
	if err != nil {
		return graph.Port{}, graph.Port{}, err
	}
	input, err := route.Destination.Resolve(slots, graph.Playback)
	if err != nil {
		return graph.Port{}, graph.Port{}, err
	}
	if !output.Valid() || !input.Valid() {
		return graph.Port{}, graph.Port{}, errors.New("route resolves to an incomplete port address")
	}
	return output, input, nil
}
