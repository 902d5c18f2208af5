package routing_test

import (
	"errors"
	"testing"

	"recroute/internal/graph"
	"recroute/internal/routing"
	"recroute/internal/teardown"
)

func TestSelectorResolve(t *testing.T) {
	slots := teardown.Slots{
		"reaper_in1":        graph.PlaybackPort("REC", "in1-L"),
		"voice_output_left": graph.CapturePort("VOICE", "output_FL"),
	}
	fallback := graph.PlaybackPort("REC", "in2")

	cases := []struct {
		name     string
		selector routing.Selector
		side     graph.Direction
		want     string
		wantErr  error
	}{
		{"slot set", routing.Slot("reaper_in1"), graph.Playback, "REC:in1-L", nil},
		{"slot unset", routing.Slot("reaper_in2"), graph.Playback, "", routing.ErrSlotUnset},
		{"slot or fallback", routing.SlotOr("reaper_in2", fallback), graph.Playback, "REC:in2", nil},
		{"slot or captured", routing.SlotOr("reaper_in1", fallback), graph.Playback, "REC:in1-L", nil},
		{"literal", routing.Literal(graph.CapturePort("HW", "capture_FL")), graph.Capture, "HW:capture_FL", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			port, err := tc.selector.Resolve(slots, tc.side)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if port.Address() != tc.want || port.Direction != tc.side {
				t.Fatalf("unexpected port %v", port)
			}
		})
	}
}

func TestSelectorRejectsWrongDirection(t *testing.T) {
	slots := teardown.Slots{"voice_output_left": graph.CapturePort("VOICE", "output_FL")}
	if _, err := routing.Slot("voice_output_left").Resolve(slots, graph.Playback); err == nil {
		t.Fatal("expected direction mismatch error")
	}
}

func TestTemplates(t *testing.T) {
	devices := routing.Devices{Recorder: "REC", AnalogInput: "HW_IN", AnalogOutput: "HW_OUT", EffectsSink: "FX_IN", EffectsSource: "FX_OUT", SoundboardSink: "SB", VoiceChat: "VOICE"}
	tables := routing.Templates(devices)

	analog := tables[routing.TemplateAnalog]
	if len(analog.Routes) != 2 {
		t.Fatalf("expected 2 analog routes, got %d", len(analog.Routes))
	}
	for _, route := range analog.Routes {
		if !route.Required {
			t.Fatalf("analog route %s should be required", route.Name)
		}
	}

	multi := tables[routing.TemplateMultichannel]
	if len(multi.Routes) != 10 {
		t.Fatalf("expected 10 multichannel routes, got %d", len(multi.Routes))
	}
	if multi.Routes[0].Name != analog.Routes[0].Name {
		t.Fatal("multichannel should start with the analog routes")
	}

	if _, err := routing.Lookup("surround", devices); !errors.Is(err, routing.ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}
	if got := routing.TemplateNames(); len(got) != 2 || got[0] != "analog" {
		t.Fatalf("unexpected template names %v", got)
	}
}
