package launcher

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

type sinkInput struct {
	Index      int               `json:"index"`
	Properties map[string]string `json:"properties"`
}

func parseSinkInputs(data []byte) ([]sinkInput, error) {
	var inputs []sinkInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("decode pactl sink inputs: %w", err)
	}
	return inputs, nil
}

// volumeArg renders a linear volume as the percentage pactl expects.
func volumeArg(volume float64) string {
	return strconv.FormatFloat(volume*100, 'f', 0, 64) + "%"
}

// setStreamVolume sets every sink input whose media name equals stream and
// returns how many were adjusted.
func (l *Launcher) setStreamVolume(ctx context.Context, stream string, volume float64) (int, error) {
	out, err := l.exec.Run(ctx, l.cfg.PactlBinary, []string{"--format=json", "list", "sink-inputs"})
	if err != nil {
		return 0, fmt.Errorf("list sink inputs: %w", err)
	}
	inputs, err := parseSinkInputs(out)
	if err != nil {
		return 0, err
	}
	adjusted := 0
	for _, input := range inputs {
		if input.Properties["media.name"] != stream {
			continue
		}
		args := []string{"set-sink-input-volume", strconv.Itoa(input.Index), volumeArg(volume)}
		if _, err := l.exec.Run(ctx, l.cfg.PactlBinary, args); err != nil {
			return adjusted, fmt.Errorf("set volume on sink input %d: %w", input.Index, err)
		}
		adjusted++
	}
	return adjusted, nil
}
