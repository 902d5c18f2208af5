package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"recroute/internal/config"
	"recroute/internal/graph"
	"recroute/internal/graph/pwlink"
	"recroute/internal/journal"
	"recroute/internal/logging"
	"recroute/internal/runlock"
	"recroute/internal/session"
)

// newGraphProvider builds the audio graph client; tests replace it.
var newGraphProvider = func(cfg *config.Config) (graph.Provider, error) {
	return pwlink.New(cfg.Routing.PwLinkBinary)
}

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		var level string
		if c.logLevelFlag != nil {
			level = *c.logLevelFlag
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg, level)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) provider(dryRun bool) (graph.Provider, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	provider, err := newGraphProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("graph provider: %w", err)
	}
	if dryRun {
		logger, err := c.ensureLogger()
		if err != nil {
			return nil, err
		}
		provider = graph.DryRun(provider, logger)
	}
	return provider, nil
}

func (c *commandContext) controller(dryRun bool) (*session.Controller, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	provider, err := c.provider(dryRun)
	if err != nil {
		return nil, err
	}
	return session.New(provider, devicesFromConfig(cfg),
		session.WithLogger(logger),
		session.WithRecorderInputs(cfg.Routing.RecorderInputs),
	), nil
}

// withLock runs fn while holding the run lock.
func (c *commandContext) withLock(fn func() error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	lock := runlock.New(cfg.LockPath())
	if err := lock.TryAcquire(); err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()
	return fn()
}

// reconfigure runs one locked, journaled reconfigure. Dry runs skip both the
// lock and the journal.
func (c *commandContext) reconfigure(ctx context.Context, template string, trigger journal.Trigger, dryRun bool) (*session.Result, error) {
	controller, err := c.controller(dryRun)
	if err != nil {
		return nil, err
	}
	if dryRun {
		return controller.Reconfigure(ctx, template)
	}
	var (
		result *session.Result
		runErr error
	)
	if err := c.withLock(func() error {
		result, runErr = controller.Reconfigure(ctx, template)
		c.journal(ctx, result, trigger)
		return nil
	}); err != nil {
		return nil, err
	}
	return result, runErr
}

// journal records result, logging rather than failing on journal errors.
func (c *commandContext) journal(ctx context.Context, result *session.Result, trigger journal.Trigger) {
	if result == nil {
		return
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return
	}
	logger, _ := c.ensureLogger()
	store, err := journal.Open(cfg)
	if err == nil {
		defer store.Close()
		err = store.Record(ctx, result, trigger)
	}
	if err != nil {
		logging.WarnWithContext(logger, "run not journaled", "journal_write_failed",
			logging.Error(err),
			logging.String(logging.FieldRunID, result.RunID),
			logging.String(logging.FieldErrorHint, "check permissions on the state directory"),
			logging.String(logging.FieldImpact, "run missing from `recroute history`"),
		)
	}
}

func (c *commandContext) templateOrDefault(flag string) string {
	if strings.TrimSpace(flag) != "" {
		return flag
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return ""
	}
	return cfg.Routing.Template
}

func devicesFromConfig(cfg *config.Config) session.Devices {
	return session.Devices{
		Recorder:       cfg.Devices.Recorder,
		AnalogInput:    cfg.Devices.AnalogInput,
		AnalogOutput:   cfg.Devices.AnalogOutput,
		EffectsSink:    cfg.Devices.EffectsSink,
		EffectsSource:  cfg.Devices.EffectsSource,
		SoundboardSink: cfg.Devices.SoundboardSink,
		VoiceChat:      cfg.Devices.VoiceChat,
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
