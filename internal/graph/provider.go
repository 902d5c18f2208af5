package graph

import (
	"context"
	"errors"
	"log/slog"

	"recroute/internal/logging"
)

// ErrGraphUnavailable marks failures to reach the audio server.
var ErrGraphUnavailable = errors.New("audio graph unavailable")

// Provider is the audio server capability the routing core consumes. Each
// call is atomic at the server boundary; nothing spans calls.
type Provider interface {
	ListLinkGroups(ctx context.Context) ([]LinkGroup, error)
	Disconnect(ctx context.Context, link Link) error
	Connect(ctx context.Context, output, input Port) error
}

// DryRun wraps a provider so queries pass through while mutations are only
// logged.
func DryRun(next Provider, logger *slog.Logger) Provider {
	return &dryRunProvider{next: next, logger: logging.NewComponentLogger(logger, "dry-run")}
}

type dryRunProvider struct {
	next   Provider
	logger *slog.Logger
}

func (d *dryRunProvider) ListLinkGroups(ctx context.Context) ([]LinkGroup, error) {
	return d.next.ListLinkGroups(ctx)
}

func (d *dryRunProvider) Disconnect(ctx context.Context, link Link) error {
	logging.WithContext(ctx, d.logger).Info("would disconnect link",
		logging.String("link", link.String()),
		logging.Int("link_id", int(link.ID)),
	)
	return nil
}

func (d *dryRunProvider) Connect(ctx context.Context, output, input Port) error {
	logging.WithContext(ctx, d.logger).Info("would connect ports",
		logging.String("output", output.Address()),
		logging.String("input", input.Address()),
	)
	return nil
}
