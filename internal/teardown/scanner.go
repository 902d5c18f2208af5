package teardown

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"recroute/internal/graph"
	"recroute/internal/logging"
)

// MatchRule selects link groups on one side of a watched device.
type MatchRule struct {
	Device       string
	Side         graph.Direction
	Required     bool
	Disambiguate Disambiguator
}

func (r MatchRule) matches(group graph.LinkGroup) bool {
	return group.CommonDevice == r.Device && group.Side == r.Side
}

// Option configures the scanner.
type Option func(*Scanner)

// WithLogger sets the scanner logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Scanner tears down links on watched devices.
type Scanner struct {
	provider graph.Provider
	rules    []MatchRule
	logger   *slog.Logger
}

// NewScanner constructs a scanner for the given rules.
func NewScanner(provider graph.Provider, rules []MatchRule, opts ...Option) *Scanner {
	s := &Scanner{
		provider: provider,
		rules:    append([]MatchRule(nil), rules...),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "teardown")
	return s
}

// ScanAndDisconnect disconnects every link in matching groups and returns the
// captured slots. Each link is disconnected at most once even when both of its
// ends match a rule. A group captures the port of its first link; a second
// group naming a different port for an occupied slot fails the scan.
func (s *Scanner) ScanAndDisconnect(ctx context.Context, groups []graph.LinkGroup) (Slots, error) {
	logger := logging.WithContext(ctx, s.logger)
	slots := Slots{}
	captured := make([]int, len(s.rules))
	disconnected := make(map[string]struct{})

	for _, group := range groups {
		for idx, rule := range s.rules {
			if !rule.matches(group) {
				continue
			}
			for _, link := range group.Links {
				key := linkKey(link)
				if _, done := disconnected[key]; done {
					continue
				}
				if err := s.provider.Disconnect(ctx, link); err != nil {
					return slots, fmt.Errorf("%w: %w", ErrTeardownFailed, err)
				}
				disconnected[key] = struct{}{}
				logger.Debug("link disconnected",
					logging.String(logging.FieldDevice, rule.Device),
					logging.String("link", link.String()),
				)
			}
			if len(group.Links) == 0 || rule.Disambiguate == nil {
				continue
			}
			slot, ok := rule.Disambiguate(group.Channel)
			if !ok {
				continue
			}
			port := group.Links[0].Endpoint(rule.Side)
			if err := slots.assign(slot, port); err != nil {
				return slots, err
			}
			captured[idx]++
			logger.Debug("slot captured",
				logging.String(logging.FieldSlot, slot),
				logging.String(logging.FieldPort, port.Address()),
			)
		}
	}

	for idx, rule := range s.rules {
		if rule.Required && captured[idx] == 0 {
			return slots, &DeviceError{Device: rule.Device, Side: rule.Side}
		}
	}

	logger.Info("teardown complete",
		logging.Int("disconnected", len(disconnected)),
		logging.Int("slots", len(slots)),
	)
	return slots, nil
}

func linkKey(link graph.Link) string {
	if link.ID != 0 {
		return strconv.FormatUint(uint64(link.ID), 10)
	}
	return link.Output.Address() + "->" + link.Input.Address()
}
