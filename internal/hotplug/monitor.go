package hotplug

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pilebones/go-udev/netlink"

	"recroute/internal/config"
	"recroute/internal/logging"
)

// Event is the device change that triggered a handler call.
type Event struct {
	Action string
	Device string
	Env    map[string]string
}

// Handler reacts to a settled device event.
type Handler func(ctx context.Context, ev Event) error

// Monitor listens for udev netlink events in one subsystem.
type Monitor struct {
	subsystem string
	debounce  time.Duration
	logger    *slog.Logger
	handler   Handler

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	done    chan struct{}
	running bool
}

// New creates a monitor from the watch configuration.
func New(cfg *config.Config, logger *slog.Logger, handler Handler) (*Monitor, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	if handler == nil {
		return nil, errors.New("handler required")
	}
	subsystem := strings.TrimSpace(cfg.Watch.Subsystem)
	if subsystem == "" {
		subsystem = "sound"
	}
	return &Monitor{
		subsystem: subsystem,
		debounce:  time.Duration(cfg.Watch.DebounceDelay) * time.Second,
		logger:    logging.NewComponentLogger(logger, "hotplug"),
		handler:   handler,
	}, nil
}

// Start connects to the kernel uevent socket and begins monitoring.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return fmt.Errorf("connect netlink socket: %w", err)
	}

	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	monitorQuit := conn.Monitor(queue, errs, m.matcher())

	m.conn = conn
	m.quit = make(chan struct{})
	m.done = make(chan struct{})
	m.running = true

	quit, done := m.quit, m.done
	go func() {
		defer close(done)
		m.loop(ctx, quit, queue, errs)
		close(monitorQuit)
	}()

	m.logger.Info("hotplug monitor started",
		logging.String(logging.FieldEventType, "hotplug_monitor_started"),
		logging.String("subsystem", m.subsystem),
		logging.Duration("debounce", m.debounce),
	)
	return nil
}

// Stop shuts down the monitor and waits for the loop to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	close(m.quit)
	done := m.done
	conn := m.conn
	m.quit, m.done, m.conn = nil, nil, nil
	m.running = false
	m.mu.Unlock()

	<-done
	if conn != nil {
		_ = conn.Close()
	}
	m.logger.Info("hotplug monitor stopped",
		logging.String(logging.FieldEventType, "hotplug_monitor_stopped"),
	)
}

// Running reports whether the monitor is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Done is closed when the monitor loop exits, or nil when not running.
func (m *Monitor) Done() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done
}

// matcher accepts device additions in the watched subsystem.
func (m *Monitor) matcher() netlink.Matcher {
	action := "add"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": m.subsystem,
		},
	})
	return rules
}

// loop coalesces events arriving within the debounce window into one handler
// call carrying the last event.
func (m *Monitor) loop(ctx context.Context, quit <-chan struct{}, queue <-chan netlink.UEvent, errs <-chan error) {
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending Event
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-quit:
			return
		case uevent := <-queue:
			ev := toEvent(uevent)
			m.logger.Debug("device event",
				logging.String("action", ev.Action),
				logging.String(logging.FieldDevice, ev.Device),
			)
			if m.debounce <= 0 {
				m.dispatch(ctx, ev)
				continue
			}
			pending = ev
			if timer == nil {
				timer = time.NewTimer(m.debounce)
			} else {
				timer.Reset(m.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			m.dispatch(ctx, pending)
		case err := <-errs:
			logging.WarnWithContext(m.logger, "netlink monitor error", "hotplug_monitor_error",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check kernel netlink subsystem"),
				logging.String(logging.FieldImpact, "device hotplug may be missed"),
			)
		}
	}
}

func (m *Monitor) dispatch(ctx context.Context, ev Event) {
	m.logger.Info("sound device added",
		logging.String(logging.FieldEventType, "hotplug_device_added"),
		logging.String(logging.FieldDevice, ev.Device),
	)
	if err := m.handler(ctx, ev); err != nil {
		logging.WarnWithContext(m.logger, "hotplug handler failed", "hotplug_handler_failed",
			logging.Error(err),
			logging.String(logging.FieldDevice, ev.Device),
			logging.String(logging.FieldErrorHint, "run `recroute route` manually once the device is ready"),
			logging.String(logging.FieldImpact, "routing not refreshed for this device"),
		)
	}
}

func toEvent(uevent netlink.UEvent) Event {
	return Event{
		Action: string(uevent.Action),
		Device: deviceName(uevent),
		Env:    uevent.Env,
	}
}

// deviceName prefers DEVNAME and falls back to the last DEVPATH element.
func deviceName(uevent netlink.UEvent) string {
	if devname := uevent.Env["DEVNAME"]; devname != "" {
		return devname
	}
	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		devpath = uevent.KObj
	}
	if devpath == "" {
		return ""
	}
	parts := strings.Split(devpath, "/")
	return parts[len(parts)-1]
}
