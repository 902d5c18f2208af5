package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"recroute/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("RECROUTE_TEMPLATE", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "recroute")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	wantTemplateDir := filepath.Join(tempHome, ".config", "REAPER", "ProjectTemplates")
	if cfg.Launch.TemplateDir != wantTemplateDir {
		t.Fatalf("unexpected template dir: got %q want %q", cfg.Launch.TemplateDir, wantTemplateDir)
	}
	if cfg.TemplatePath() != filepath.Join(wantTemplateDir, "MultiChannelRecording.RPP") {
		t.Fatalf("unexpected template path: %q", cfg.TemplatePath())
	}
	if cfg.Devices.Recorder != "REAPER" {
		t.Fatalf("unexpected recorder device: %q", cfg.Devices.Recorder)
	}
	if cfg.Devices.VoiceChat != "ZOOM VoiceEngine" {
		t.Fatalf("unexpected voice chat device: %q", cfg.Devices.VoiceChat)
	}
	if cfg.Routing.Template != "multichannel" {
		t.Fatalf("unexpected template: %q", cfg.Routing.Template)
	}
	if cfg.Routing.RecorderInputs != 4 {
		t.Fatalf("unexpected recorder inputs: %d", cfg.Routing.RecorderInputs)
	}
	if cfg.Launch.PlaybackVolume != 0.74 {
		t.Fatalf("unexpected playback volume: %v", cfg.Launch.PlaybackVolume)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
	if filepath.Dir(cfg.JournalPath()) != cfg.Paths.StateDir {
		t.Fatalf("journal should live in state dir, got %q", cfg.JournalPath())
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "recroute.toml")
	t.Setenv("RECROUTE_TEMPLATE", "")

	type payload struct {
		Devices struct {
			Recorder  string `toml:"recorder"`
			VoiceChat string `toml:"voice_chat"`
		} `toml:"devices"`
		Routing struct {
			Template string `toml:"template"`
		} `toml:"routing"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Devices.Recorder = "  Ardour  "
	custom.Devices.VoiceChat = "Discord"
	custom.Routing.Template = "Analog"
	custom.Logging.Format = "JSON"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Devices.Recorder != "Ardour" {
		t.Fatalf("expected trimmed recorder device, got %q", cfg.Devices.Recorder)
	}
	if cfg.Devices.VoiceChat != "Discord" {
		t.Fatalf("expected voice chat override, got %q", cfg.Devices.VoiceChat)
	}
	if cfg.Devices.AnalogInput != config.Default().Devices.AnalogInput {
		t.Fatalf("expected default analog input to survive partial file, got %q", cfg.Devices.AnalogInput)
	}
	if cfg.Routing.Template != "analog" {
		t.Fatalf("expected lowercased template, got %q", cfg.Routing.Template)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json log format, got %q", cfg.Logging.Format)
	}
}

func TestTemplateEnvOverridesConfigFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "recroute.toml")
	if err := os.WriteFile(configPath, []byte("[routing]\ntemplate = \"multichannel\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("RECROUTE_TEMPLATE", "analog")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Routing.Template != "analog" {
		t.Fatalf("expected template from env, got %q", cfg.Routing.Template)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "ZOOM VoiceEngine") {
		t.Fatalf("sample config missing voice chat device: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Devices.Recorder != config.Default().Devices.Recorder {
		t.Fatalf("sample recorder drifted from defaults: %q", cfg.Devices.Recorder)
	}
	if cfg.Routing.RecorderInputs != config.Default().Routing.RecorderInputs {
		t.Fatalf("sample recorder inputs drifted from defaults: %d", cfg.Routing.RecorderInputs)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"missing recorder", func(c *config.Config) { c.Devices.Recorder = "" }, "devices.recorder"},
		{"recorder equals voice", func(c *config.Config) { c.Devices.VoiceChat = c.Devices.Recorder }, "must differ"},
		{"no recorder inputs", func(c *config.Config) { c.Routing.RecorderInputs = 0 }, "recorder_inputs"},
		{"too few inputs for multichannel", func(c *config.Config) { c.Routing.RecorderInputs = 2 }, "at least 3"},
		{"volume out of range", func(c *config.Config) { c.Launch.PlaybackVolume = 2 }, "playback_volume"},
		{"zero poll interval", func(c *config.Config) { c.Launch.PollInterval = 0 }, "poll_interval"},
		{"timeout below poll", func(c *config.Config) { c.Launch.ReadyTimeout = 1; c.Launch.PollInterval = 5 }, "ready_timeout"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in error, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateAcceptsAnalogWithSingleInput(t *testing.T) {
	cfg := config.Default()
	cfg.Routing.Template = "analog"
	cfg.Routing.RecorderInputs = 1
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected analog template to accept a single input, got %v", err)
	}
}
