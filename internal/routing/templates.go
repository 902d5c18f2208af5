package routing

import (
	"fmt"
	"sort"

	"recroute/internal/graph"
)

// Built-in template names.
const (
	TemplateAnalog       = "analog"
	TemplateMultichannel = "multichannel"
)

// Slot names filled by the session teardown rules.
const (
	SlotRecorderInputPrefix = "reaper_in"
	SlotVoiceLeft           = "voice_output_left"
	SlotVoiceRight          = "voice_output_right"
	SlotEffectsLeft         = "effects_output_left"
	SlotEffectsRight        = "effects_output_right"
)

// Devices carries the device identity strings the tables address.
type Devices struct {
	Recorder       string
	AnalogInput    string
	AnalogOutput   string
	EffectsSink    string
	EffectsSource  string
	SoundboardSink string
	VoiceChat      string
}

// RecorderSlot returns the slot name for recorder input n (1-based).
func RecorderSlot(n int) string {
	return fmt.Sprintf("%s%d", SlotRecorderInputPrefix, n)
}

func recorderInput(d Devices, n int) Selector {
	return SlotOr(RecorderSlot(n), graph.PlaybackPort(d.Recorder, fmt.Sprintf("in%d", n)))
}

func analogRoutes(d Devices) []Route {
	return []Route{
		{Name: "analog-left", Source: Literal(graph.CapturePort(d.AnalogInput, "capture_FL")), Destination: recorderInput(d, 1), Required: true},
		{Name: "analog-right", Source: Literal(graph.CapturePort(d.AnalogInput, "capture_FR")), Destination: recorderInput(d, 1), Required: true},
	}
}

func multichannelRoutes(d Devices) []Route {
	routes := analogRoutes(d)
	routes = append(routes,
		Route{Name: "effects-left-recorder", Source: Slot(SlotEffectsLeft), Destination: recorderInput(d, 2)},
		Route{Name: "effects-right-recorder", Source: Slot(SlotEffectsRight), Destination: recorderInput(d, 2)},
		Route{Name: "voice-left-effects", Source: Slot(SlotVoiceLeft), Destination: Literal(graph.PlaybackPort(d.EffectsSink, "playback_FL"))},
		Route{Name: "voice-right-effects", Source: Slot(SlotVoiceRight), Destination: Literal(graph.PlaybackPort(d.EffectsSink, "playback_FR"))},
		Route{Name: "effects-left-monitor", Source: Slot(SlotEffectsLeft), Destination: Literal(graph.PlaybackPort(d.AnalogOutput, "playback_FL"))},
		Route{Name: "effects-right-monitor", Source: Slot(SlotEffectsRight), Destination: Literal(graph.PlaybackPort(d.AnalogOutput, "playback_FR"))},
		Route{Name: "soundboard-left", Source: Literal(graph.CapturePort(d.SoundboardSink, "monitor_FL")), Destination: recorderInput(d, 3), Required: true},
		Route{Name: "soundboard-right", Source: Literal(graph.CapturePort(d.SoundboardSink, "monitor_FR")), Destination: recorderInput(d, 3), Required: true},
	)
	return routes
}

// Templates returns the built-in route tables keyed by name.
func Templates(d Devices) map[string]Table {
	return map[string]Table{
		TemplateAnalog:       {Name: TemplateAnalog, Routes: analogRoutes(d)},
		TemplateMultichannel: {Name: TemplateMultichannel, Routes: multichannelRoutes(d)},
	}
}

// Lookup returns the named built-in table.
func Lookup(name string, d Devices) (Table, error) {
	table, ok := Templates(d)[name]
	if !ok {
		return Table{}, fmt.Errorf("%w: %q (known: %v)", ErrUnknownTemplate, name, TemplateNames())
	}
	return table, nil
}

// TemplateNames lists the built-in template names in sorted order.
func TemplateNames() []string {
	names := []string{TemplateAnalog, TemplateMultichannel}
	sort.Strings(names)
	return names
}
