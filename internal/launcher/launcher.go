package launcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"recroute/internal/config"
	"recroute/internal/logging"
	"recroute/internal/session"
)

var (
	// ErrTemplateMissing reports a recorder template that never became readable.
	ErrTemplateMissing = errors.New("recorder template not readable")
	// ErrRecorderNotReady reports a recorder process that never appeared.
	ErrRecorderNotReady = errors.New("recorder process not running")
)

// Reconfigurer runs the routing core once the recorder is up.
type Reconfigurer interface {
	Reconfigure(ctx context.Context, template string) (*session.Result, error)
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithStarter injects the helper process starter (primarily for tests).
func WithStarter(s Starter) Option {
	return func(l *Launcher) {
		if s != nil {
			l.starter = s
		}
	}
}

// WithExecutor injects the pactl executor (primarily for tests).
func WithExecutor(e Executor) Option {
	return func(l *Launcher) {
		if e != nil {
			l.exec = e
		}
	}
}

// WithProcessFinder injects the readiness probe (primarily for tests).
func WithProcessFinder(f ProcessFinder) Option {
	return func(l *Launcher) {
		if f != nil {
			l.finder = f
		}
	}
}

// WithSleep replaces the context-aware sleep used between polls.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(l *Launcher) {
		if sleep != nil {
			l.sleep = sleep
		}
	}
}

// Launcher runs the session start sequence.
type Launcher struct {
	cfg          config.Launch
	templatePath string
	routeTmpl    string
	reconfigurer Reconfigurer
	logger       *slog.Logger

	starter Starter
	exec    Executor
	finder  ProcessFinder
	sleep   func(ctx context.Context, d time.Duration) error
}

// New constructs a launcher for cfg. reconfigurer is invoked once the
// recorder has settled.
func New(cfg *config.Config, reconfigurer Reconfigurer, logger *slog.Logger, opts ...Option) (*Launcher, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	if reconfigurer == nil {
		return nil, errors.New("reconfigurer required")
	}
	l := &Launcher{
		cfg:          cfg.Launch,
		templatePath: cfg.TemplatePath(),
		routeTmpl:    cfg.Routing.Template,
		reconfigurer: reconfigurer,
		logger:       logging.NewComponentLogger(logger, "launcher"),
		starter:      detachedStarter{},
		exec:         commandExecutor{},
		finder:       procFinder{root: "/proc"},
		sleep:        sleepContext,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Run starts the session and returns the reconfigure result. template
// overrides the configured route template when non-empty.
func (l *Launcher) Run(ctx context.Context, template string) (*session.Result, error) {
	if strings.TrimSpace(template) == "" {
		template = l.routeTmpl
	}

	l.startHelper(ctx, "soundboard", l.cfg.SoundboardCommand)
	l.startHelper(ctx, "effects", l.cfg.EffectsCommand)
	l.adjustVolume(ctx)

	if err := l.waitForTemplate(ctx); err != nil {
		return nil, err
	}
	if err := l.startRecorder(ctx); err != nil {
		return nil, err
	}
	if err := l.waitForRecorder(ctx); err != nil {
		return nil, err
	}

	settle := seconds(l.cfg.SettleDelay)
	if settle > 0 {
		l.logger.Info("waiting for recorder ports to settle", logging.Duration("delay", settle))
		if err := l.sleep(ctx, settle); err != nil {
			return nil, err
		}
	}

	return l.reconfigurer.Reconfigure(ctx, template)
}

func (l *Launcher) startHelper(ctx context.Context, name, command string) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		l.logger.Debug("helper not configured", logging.String("helper", name))
		return
	}
	pid, err := l.starter.Start(ctx, fields[0], fields[1:])
	if err != nil {
		logging.WarnWithContext(l.logger, "helper failed to start", "launch_helper_failed",
			logging.String("helper", name),
			logging.String("command", command),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the command in [launch] of the config file"),
			logging.String(logging.FieldImpact, "routes from this helper will be skipped"),
		)
		return
	}
	l.logger.Info("helper started", logging.String("helper", name), logging.Int("pid", pid))
}

func (l *Launcher) adjustVolume(ctx context.Context) {
	if strings.TrimSpace(l.cfg.PlaybackStream) == "" {
		return
	}
	adjusted, err := l.setStreamVolume(ctx, l.cfg.PlaybackStream, l.cfg.PlaybackVolume)
	if err != nil {
		logging.WarnWithContext(l.logger, "playback volume not set", "launch_volume_failed",
			logging.String("stream", l.cfg.PlaybackStream),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "verify pactl is installed and the pulse server is running"),
			logging.String(logging.FieldImpact, "remote playback keeps its current volume"),
		)
		return
	}
	l.logger.Info("playback volume set",
		logging.String("stream", l.cfg.PlaybackStream),
		logging.Float64("volume", l.cfg.PlaybackVolume),
		logging.Int("streams", adjusted),
	)
}

func (l *Launcher) waitForTemplate(ctx context.Context) error {
	deadline := seconds(l.cfg.TemplateWaitTimeout)
	poll := l.pollInterval()
	var waited time.Duration
	for {
		err := unix.Access(l.templatePath, unix.R_OK)
		if err == nil {
			return nil
		}
		if waited >= deadline {
			return fmt.Errorf("%w: %s: %w", ErrTemplateMissing, l.templatePath, err)
		}
		if err := l.sleep(ctx, poll); err != nil {
			return err
		}
		waited += poll
	}
}

func (l *Launcher) startRecorder(ctx context.Context) error {
	binary := l.cfg.RecorderBinary
	args := []string{"-template", l.templatePath}
	if wrapper := strings.TrimSpace(l.cfg.JackWrapper); wrapper != "" {
		args = append([]string{binary}, args...)
		binary = wrapper
	}
	pid, err := l.starter.Start(ctx, binary, args)
	if err != nil {
		return fmt.Errorf("start recorder: %w", err)
	}
	l.logger.Info("recorder started",
		logging.String("template_file", l.templatePath),
		logging.Int("pid", pid),
	)
	return nil
}

func (l *Launcher) waitForRecorder(ctx context.Context) error {
	timeout := seconds(l.cfg.ReadyTimeout)
	poll := l.pollInterval()
	var waited time.Duration
	for {
		running, err := l.finder.Running(l.cfg.RecorderProcess)
		if err != nil {
			return fmt.Errorf("probe recorder process: %w", err)
		}
		if running {
			l.logger.Info("recorder process running",
				logging.String("process", l.cfg.RecorderProcess),
				logging.Duration("waited", waited),
			)
			return nil
		}
		if waited >= timeout {
			return fmt.Errorf("%w: %q after %s", ErrRecorderNotReady, l.cfg.RecorderProcess, timeout)
		}
		if err := l.sleep(ctx, poll); err != nil {
			return err
		}
		waited += poll
	}
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func (l *Launcher) pollInterval() time.Duration {
	if l.cfg.PollInterval <= 0 {
		return time.Second
	}
	return seconds(l.cfg.PollInterval)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
