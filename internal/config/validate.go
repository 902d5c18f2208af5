package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDevices(); err != nil {
		return err
	}
	if err := c.validateRouting(); err != nil {
		return err
	}
	if err := c.validateLaunch(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDevices() error {
	required := []struct {
		key   string
		value string
	}{
		{"devices.recorder", c.Devices.Recorder},
		{"devices.analog_input", c.Devices.AnalogInput},
		{"devices.analog_output", c.Devices.AnalogOutput},
		{"devices.effects_sink", c.Devices.EffectsSink},
		{"devices.effects_source", c.Devices.EffectsSource},
		{"devices.soundboard_sink", c.Devices.SoundboardSink},
		{"devices.voice_chat", c.Devices.VoiceChat},
	}
	for _, field := range required {
		if field.value == "" {
			return fmt.Errorf("%s must be set", field.key)
		}
	}
	if c.Devices.Recorder == c.Devices.VoiceChat || c.Devices.Recorder == c.Devices.EffectsSource {
		return errors.New("devices.recorder must differ from devices.voice_chat and devices.effects_source")
	}
	return nil
}

func (c *Config) validateRouting() error {
	if c.Routing.RecorderInputs < 1 {
		return errors.New("routing.recorder_inputs must be positive")
	}
	// The multichannel table wires recorder inputs 1 through 3.
	if c.Routing.Template == "multichannel" && c.Routing.RecorderInputs < 3 {
		return errors.New("routing.recorder_inputs must be at least 3 for the multichannel template")
	}
	return nil
}

func (c *Config) validateLaunch() error {
	if c.Launch.PlaybackVolume < 0 || c.Launch.PlaybackVolume > 1.5 {
		return errors.New("launch.playback_volume must be between 0 and 1.5")
	}
	if err := ensurePositiveMap(map[string]int{
		"launch.poll_interval":         c.Launch.PollInterval,
		"launch.ready_timeout":         c.Launch.ReadyTimeout,
		"launch.template_wait_timeout": c.Launch.TemplateWaitTimeout,
	}); err != nil {
		return err
	}
	if c.Launch.ReadyTimeout < c.Launch.PollInterval {
		return errors.New("launch.ready_timeout must be at least launch.poll_interval")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
