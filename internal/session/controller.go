package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"recroute/internal/graph"
	"recroute/internal/logging"
	"recroute/internal/routing"
	"recroute/internal/teardown"
)

// Devices names the device identities a run watches and routes.
type Devices = routing.Devices

// ErrUnknownTemplate reports a template with no built-in route table.
var ErrUnknownTemplate = routing.ErrUnknownTemplate

const defaultRecorderInputs = 4

// Result describes one run. It is returned for failed runs too.
type Result struct {
	RunID      string
	Template   string
	State      State
	FailedFrom State
	Slots      teardown.Slots
	Installed  []routing.Installed
	Skipped    []routing.Skipped
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns the run's wall time.
func (r *Result) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.base = logger
		}
	}
}

// WithRecorderInputs sets how many numbered recorder inputs teardown tracks.
func WithRecorderInputs(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.recorderInputs = n
		}
	}
}

// WithRunID replaces the run id generator.
func WithRunID(gen func() string) Option {
	return func(c *Controller) {
		if gen != nil {
			c.newRunID = gen
		}
	}
}

// Controller sequences query, teardown and install for one graph provider.
// Concurrent Reconfigure calls on the same graph are unsupported.
type Controller struct {
	provider       graph.Provider
	devices        Devices
	recorderInputs int
	base           *slog.Logger
	logger         *slog.Logger
	newRunID       func() string
	now            func() time.Time
}

// New constructs a controller.
func New(provider graph.Provider, devices Devices, opts ...Option) *Controller {
	c := &Controller{
		provider:       provider,
		devices:        devices,
		recorderInputs: defaultRecorderInputs,
		base:           logging.NewNop(),
		newRunID:       uuid.NewString,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.base, "session")
	return c
}

// Rules returns the teardown rules for the configured devices. The recorder's
// inputs are required; voice chat and effects output are captured when
// present.
func (c *Controller) Rules() []teardown.MatchRule {
	rules := []teardown.MatchRule{{
		Device:       c.devices.Recorder,
		Side:         graph.Playback,
		Required:     true,
		Disambiguate: teardown.NumberedSlots(routing.SlotRecorderInputPrefix, "in", c.recorderInputs),
	}}
	if c.devices.VoiceChat != "" {
		rules = append(rules, teardown.MatchRule{
			Device:       c.devices.VoiceChat,
			Side:         graph.Capture,
			Disambiguate: teardown.StereoSlots(routing.SlotVoiceLeft, routing.SlotVoiceRight),
		})
	}
	if c.devices.EffectsSource != "" {
		rules = append(rules, teardown.MatchRule{
			Device:       c.devices.EffectsSource,
			Side:         graph.Capture,
			Disambiguate: teardown.StereoSlots(routing.SlotEffectsLeft, routing.SlotEffectsRight),
		})
	}
	return rules
}

// Reconfigure runs one query, teardown and install pass for template. The
// returned Result is never nil; err equals Result.Err.
func (c *Controller) Reconfigure(ctx context.Context, template string) (*Result, error) {
	template = strings.ToLower(strings.TrimSpace(template))
	result := &Result{
		RunID:     c.newRunID(),
		Template:  template,
		State:     StateStart,
		StartedAt: c.now(),
	}
	ctx = logging.WithRunID(ctx, result.RunID)
	ctx = logging.WithTemplate(ctx, template)
	logger := logging.WithContext(ctx, c.logger)

	table, err := routing.Lookup(template, c.devices)
	if err != nil {
		return c.fail(logger, result, StateStart, err)
	}

	logger.Info("reconfigure started", logging.Int("routes", len(table.Routes)))

	groups, err := c.provider.ListLinkGroups(ctx)
	if err != nil {
		return c.fail(logger, result, StateQueried, fmt.Errorf("query graph: %w", err))
	}
	result.State = StateQueried
	logger.Debug("graph queried", logging.Int("groups", len(groups)))

	slots, err := teardown.NewScanner(c.provider, c.Rules(), teardown.WithLogger(c.base)).ScanAndDisconnect(ctx, groups)
	result.Slots = slots
	if err != nil {
		return c.fail(logger, result, StateTornDown, err)
	}
	result.State = StateTornDown

	report, err := routing.NewInstaller(c.provider, c.base).Install(ctx, table, slots)
	result.Installed = report.Installed
	result.Skipped = report.Skipped
	if err != nil {
		return c.fail(logger, result, StateRouted, err)
	}
	result.State = StateDone
	result.FinishedAt = c.now()
	logger.Info("reconfigure complete",
		logging.Int("slots", len(result.Slots)),
		logging.Int("installed", len(result.Installed)),
		logging.Int("skipped", len(result.Skipped)),
		logging.Duration("duration", result.Duration()),
	)
	return result, nil
}

// fail records the phase that was in progress when err occurred.
func (c *Controller) fail(logger *slog.Logger, result *Result, phase State, err error) (*Result, error) {
	result.FailedFrom = phase
	result.State = StateFailed
	result.Err = err
	result.FinishedAt = c.now()
	logging.ErrorWithContext(logger, "reconfigure failed", "reconfigure_failed",
		logging.String("failed_from", string(result.FailedFrom)),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "inspect `recroute links` and re-run once the devices are up"),
	)
	return result, err
}
