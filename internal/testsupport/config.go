package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"recroute/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Launch delays are shortened so orchestration tests do not sleep.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Launch.TemplateDir = filepath.Join(base, "templates")
	cfgVal.Launch.SettleDelay = 0
	cfgVal.Launch.PollInterval = 1
	cfgVal.Launch.ReadyTimeout = 1
	cfgVal.Launch.TemplateWaitTimeout = 1
	cfgVal.Watch.DebounceDelay = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithTemplate selects the route table template on the test config.
func WithTemplate(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Routing.Template = name
	}
}

// WithTemplateFile writes an empty recorder template where the launcher
// expects it.
func WithTemplateFile() ConfigOption {
	return func(b *configBuilder) {
		WriteFile(b.t, filepath.Join(b.cfg.Launch.TemplateDir, b.cfg.Launch.TemplateFile), "<REAPER_PROJECT\n>\n")
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the default external binaries
// are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"pw-link", "pactl", "pw-jack", "reaper", "easyeffects"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
