package pwlink

import (
	"fmt"
	"strconv"
	"strings"

	"recroute/internal/graph"
)

const (
	forwardMarker = "|->"
	reverseMarker = "|<-"
)

// parseLinks reads `pw-link --links --id` output:
//
//	 57 alsa_input.usb:capture_FL
//	 94   |->   77 REAPER:in1-L
//	 77 REAPER:in1-L
//	 94   |<-   57 alsa_input.usb:capture_FL
//
// Port lines open an output port; forward lines add one link from it. Reverse
// lines repeat the same links from the input side and are ignored. Leading ids
// are optional so output produced without --id parses too.
func parseLinks(lines []string) ([]graph.Link, error) {
	var (
		links   []graph.Link
		current graph.Port
		open    bool
	)
	for idx, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		switch {
		case strings.Contains(line, forwardMarker):
			if !open {
				return nil, fmt.Errorf("line %d: link without preceding port", idx+1)
			}
			before, after, _ := strings.Cut(line, forwardMarker)
			linkID, err := parseID(strings.TrimSpace(before))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", idx+1, err)
			}
			_, name := splitID(strings.TrimSpace(after))
			peer, err := parsePort(name, graph.Playback)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", idx+1, err)
			}
			links = append(links, graph.Link{ID: linkID, Output: current, Input: peer})
		case strings.Contains(line, reverseMarker):
			continue
		default:
			_, name := splitID(line)
			port, err := parsePort(name, graph.Capture)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", idx+1, err)
			}
			current = port
			open = true
		}
	}
	return links, nil
}

// splitID separates an optional leading numeric id from a port name.
func splitID(s string) (uint32, string) {
	head, rest, found := strings.Cut(s, " ")
	if !found {
		return 0, s
	}
	id, err := strconv.ParseUint(head, 10, 32)
	if err != nil {
		return 0, s
	}
	return uint32(id), strings.TrimSpace(rest)
}

func parseID(s string) (uint32, error) {
	if s == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid link id %q", s)
	}
	return uint32(id), nil
}

// parsePort splits device:port at the last colon; device names may contain
// colons themselves.
func parsePort(name string, dir graph.Direction) (graph.Port, error) {
	cut := strings.LastIndex(name, ":")
	if cut <= 0 || cut == len(name)-1 {
		return graph.Port{}, fmt.Errorf("malformed port %q", name)
	}
	return graph.Port{Device: name[:cut], Name: name[cut+1:], Direction: dir}, nil
}
