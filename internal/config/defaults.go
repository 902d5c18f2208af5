package config

const (
	defaultConfigPath          = "~/.config/recroute/config.toml"
	defaultStateDir            = "~/.local/share/recroute"
	defaultLogDir              = "~/.local/share/recroute/logs"
	defaultRecorderDevice      = "REAPER"
	defaultAnalogInputDevice   = "alsa_input.usb-BurrBrown_from_Texas_Instruments_USB_AUDIO_CODEC-00.analog-stereo"
	defaultAnalogOutputDevice  = "alsa_output.usb-BurrBrown_from_Texas_Instruments_USB_AUDIO_CODEC-00.analog-stereo"
	defaultEffectsSinkDevice   = "easyeffects_sink"
	defaultEffectsSourceDevice = "ee_soe_output_level"
	defaultSoundboardDevice    = "soundux_sink"
	defaultVoiceChatDevice     = "ZOOM VoiceEngine"
	defaultTemplate            = "multichannel"
	defaultRecorderInputs      = 4
	defaultPwLinkBinary        = "pw-link"
	defaultRecorderBinary      = "reaper"
	defaultJackWrapper         = "pw-jack"
	defaultRecorderProcess     = "reaper"
	defaultTemplateDir         = "~/.config/REAPER/ProjectTemplates"
	defaultTemplateFile        = "MultiChannelRecording.RPP"
	defaultEffectsCommand      = "easyeffects"
	defaultPactlBinary         = "pactl"
	defaultPlaybackStream      = "Playback"
	defaultPlaybackVolume      = 0.74
	defaultPollInterval        = 2
	defaultSettleDelay         = 15
	defaultReadyTimeout        = 120
	defaultTemplateWaitTimeout = 30
	defaultWatchSubsystem      = "sound"
	defaultWatchDebounce       = 3
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Devices: Devices{
			Recorder:       defaultRecorderDevice,
			AnalogInput:    defaultAnalogInputDevice,
			AnalogOutput:   defaultAnalogOutputDevice,
			EffectsSink:    defaultEffectsSinkDevice,
			EffectsSource:  defaultEffectsSourceDevice,
			SoundboardSink: defaultSoundboardDevice,
			VoiceChat:      defaultVoiceChatDevice,
		},
		Routing: Routing{
			Template:       defaultTemplate,
			RecorderInputs: defaultRecorderInputs,
			PwLinkBinary:   defaultPwLinkBinary,
		},
		Launch: Launch{
			RecorderBinary:      defaultRecorderBinary,
			JackWrapper:         defaultJackWrapper,
			RecorderProcess:     defaultRecorderProcess,
			TemplateDir:         defaultTemplateDir,
			TemplateFile:        defaultTemplateFile,
			EffectsCommand:      defaultEffectsCommand,
			PactlBinary:         defaultPactlBinary,
			PlaybackStream:      defaultPlaybackStream,
			PlaybackVolume:      defaultPlaybackVolume,
			PollInterval:        defaultPollInterval,
			SettleDelay:         defaultSettleDelay,
			ReadyTimeout:        defaultReadyTimeout,
			TemplateWaitTimeout: defaultTemplateWaitTimeout,
		},
		Watch: Watch{
			Subsystem:     defaultWatchSubsystem,
			DebounceDelay: defaultWatchDebounce,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
