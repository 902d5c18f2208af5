package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDevices()
	c.normalizeRouting()
	if err := c.normalizeLaunch(); err != nil {
		return err
	}
	c.normalizeWatch()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

// Device identities are matched verbatim, so only surrounding whitespace is
// stripped. Internal spaces ("ZOOM VoiceEngine") are significant.
func (c *Config) normalizeDevices() {
	c.Devices.Recorder = strings.TrimSpace(c.Devices.Recorder)
	c.Devices.AnalogInput = strings.TrimSpace(c.Devices.AnalogInput)
	c.Devices.AnalogOutput = strings.TrimSpace(c.Devices.AnalogOutput)
	c.Devices.EffectsSink = strings.TrimSpace(c.Devices.EffectsSink)
	c.Devices.EffectsSource = strings.TrimSpace(c.Devices.EffectsSource)
	c.Devices.SoundboardSink = strings.TrimSpace(c.Devices.SoundboardSink)
	c.Devices.VoiceChat = strings.TrimSpace(c.Devices.VoiceChat)
}

func (c *Config) normalizeRouting() {
	if value, ok := os.LookupEnv("RECROUTE_TEMPLATE"); ok && strings.TrimSpace(value) != "" {
		c.Routing.Template = value
	}
	c.Routing.Template = strings.ToLower(strings.TrimSpace(c.Routing.Template))
	if c.Routing.Template == "" {
		c.Routing.Template = defaultTemplate
	}
	if c.Routing.RecorderInputs == 0 {
		c.Routing.RecorderInputs = defaultRecorderInputs
	}
	c.Routing.PwLinkBinary = strings.TrimSpace(c.Routing.PwLinkBinary)
	if c.Routing.PwLinkBinary == "" {
		c.Routing.PwLinkBinary = defaultPwLinkBinary
	}
}

func (c *Config) normalizeLaunch() error {
	var err error
	c.Launch.RecorderBinary = strings.TrimSpace(c.Launch.RecorderBinary)
	if c.Launch.RecorderBinary == "" {
		c.Launch.RecorderBinary = defaultRecorderBinary
	}
	c.Launch.JackWrapper = strings.TrimSpace(c.Launch.JackWrapper)
	c.Launch.RecorderProcess = strings.TrimSpace(c.Launch.RecorderProcess)
	if c.Launch.RecorderProcess == "" {
		c.Launch.RecorderProcess = defaultRecorderProcess
	}
	if strings.TrimSpace(c.Launch.TemplateDir) == "" {
		c.Launch.TemplateDir = defaultTemplateDir
	}
	if c.Launch.TemplateDir, err = expandPath(c.Launch.TemplateDir); err != nil {
		return fmt.Errorf("launch.template_dir: %w", err)
	}
	c.Launch.TemplateFile = strings.TrimSpace(c.Launch.TemplateFile)
	c.Launch.SoundboardCommand = strings.TrimSpace(c.Launch.SoundboardCommand)
	if c.Launch.SoundboardCommand != "" && strings.HasPrefix(c.Launch.SoundboardCommand, "~") {
		if c.Launch.SoundboardCommand, err = expandPath(c.Launch.SoundboardCommand); err != nil {
			return fmt.Errorf("launch.soundboard_command: %w", err)
		}
	}
	c.Launch.EffectsCommand = strings.TrimSpace(c.Launch.EffectsCommand)
	c.Launch.PactlBinary = strings.TrimSpace(c.Launch.PactlBinary)
	if c.Launch.PactlBinary == "" {
		c.Launch.PactlBinary = defaultPactlBinary
	}
	c.Launch.PlaybackStream = strings.TrimSpace(c.Launch.PlaybackStream)
	if c.Launch.PollInterval <= 0 {
		c.Launch.PollInterval = defaultPollInterval
	}
	if c.Launch.SettleDelay < 0 {
		c.Launch.SettleDelay = 0
	}
	if c.Launch.ReadyTimeout <= 0 {
		c.Launch.ReadyTimeout = defaultReadyTimeout
	}
	if c.Launch.TemplateWaitTimeout <= 0 {
		c.Launch.TemplateWaitTimeout = defaultTemplateWaitTimeout
	}
	return nil
}

func (c *Config) normalizeWatch() {
	c.Watch.Subsystem = strings.ToLower(strings.TrimSpace(c.Watch.Subsystem))
	if c.Watch.Subsystem == "" {
		c.Watch.Subsystem = defaultWatchSubsystem
	}
	if c.Watch.DebounceDelay < 0 {
		c.Watch.DebounceDelay = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
