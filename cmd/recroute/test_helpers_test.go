package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"recroute/internal/config"
	"recroute/internal/graph"
	"recroute/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	graph      *testsupport.FakeGraph
	configPath string
}

func setupCLITestEnv(t *testing.T, links ...graph.Link) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("RECROUTE_TEMPLATE", "")
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	cfg.Devices = config.Devices{
		Recorder:       "REC",
		AnalogInput:    "HW_IN",
		AnalogOutput:   "HW_OUT",
		EffectsSink:    "FX_SINK",
		EffectsSource:  "FX_OUT",
		SoundboardSink: "SB",
		VoiceChat:      "VOICE",
	}
	cfg.Logging.Level = "error"

	configPath := filepath.Join(t.TempDir(), "recroute.toml")
	writeTestConfig(t, configPath, cfg)

	fake := testsupport.NewFakeGraph(links...)
	previous := newGraphProvider
	newGraphProvider = func(*config.Config) (graph.Provider, error) { return fake, nil }
	t.Cleanup(func() { newGraphProvider = previous })

	return &cliTestEnv{cfg: cfg, graph: fake, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
