package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Devices names the PipeWire node identities the router matches against.
// These are server-assigned strings; they are never discovered at runtime.
type Devices struct {
	Recorder       string `toml:"recorder"`
	AnalogInput    string `toml:"analog_input"`
	AnalogOutput   string `toml:"analog_output"`
	EffectsSink    string `toml:"effects_sink"`
	EffectsSource  string `toml:"effects_source"`
	SoundboardSink string `toml:"soundboard_sink"`
	VoiceChat      string `toml:"voice_chat"`
}

// Routing contains route table selection and graph client settings.
type Routing struct {
	Template       string `toml:"template"`
	RecorderInputs int    `toml:"recorder_inputs"`
	PwLinkBinary   string `toml:"pw_link_binary"`
}

// Launch contains configuration for the recording session orchestration.
type Launch struct {
	RecorderBinary      string  `toml:"recorder_binary"`
	JackWrapper         string  `toml:"jack_wrapper"`
	RecorderProcess     string  `toml:"recorder_process"`
	TemplateDir         string  `toml:"template_dir"`
	TemplateFile        string  `toml:"template_file"`
	SoundboardCommand   string  `toml:"soundboard_command"`
	EffectsCommand      string  `toml:"effects_command"`
	PactlBinary         string  `toml:"pactl_binary"`
	PlaybackStream      string  `toml:"playback_stream"`
	PlaybackVolume      float64 `toml:"playback_volume"`
	PollInterval        int     `toml:"poll_interval"`
	SettleDelay         int     `toml:"settle_delay"`
	ReadyTimeout        int     `toml:"ready_timeout"`
	TemplateWaitTimeout int     `toml:"template_wait_timeout"`
}

// Watch contains configuration for hotplug-triggered reconfiguration.
type Watch struct {
	Subsystem     string `toml:"subsystem"`
	DebounceDelay int    `toml:"debounce_delay"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for recroute.
//
// Configuration sections by subsystem:
//   - Paths: state (journal, lock) and log directories
//   - Devices: PipeWire node identities used by teardown and routing
//   - Routing: default route table template and pw-link settings
//   - Launch: recorder, soundboard, effects, and volume orchestration
//   - Watch: hotplug monitor settings
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Devices Devices `toml:"devices"`
	Routing Routing `toml:"routing"`
	Launch  Launch  `toml:"launch"`
	Watch   Watch   `toml:"watch"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("recroute.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// JournalPath returns the run journal database location.
func (c *Config) JournalPath() string {
	return filepath.Join(c.Paths.StateDir, "journal.db")
}

// LogPath returns the log file that receives a copy of every log line.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, "recroute.log")
}

// LockPath returns the lock file guarding graph mutation.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "recroute.lock")
}

// TemplatePath returns the recorder project template location.
func (c *Config) TemplatePath() string {
	if strings.TrimSpace(c.Launch.TemplateFile) == "" {
		return ""
	}
	return filepath.Join(c.Launch.TemplateDir, c.Launch.TemplateFile)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
