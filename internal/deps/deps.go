// Package deps reports whether the external binaries recroute drives are
// installed.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"recroute/internal/config"
)

// Requirement defines an external dependency recroute relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the binaries named by the configuration. Only pw-link
// is needed to reconfigure; the rest serve `recroute launch`.
func Requirements(cfg *config.Config) []Requirement {
	reqs := []Requirement{
		{Name: "pw-link", Command: cfg.Routing.PwLinkBinary, Description: "Queries and rewires the PipeWire graph"},
		{Name: "pactl", Command: cfg.Launch.PactlBinary, Description: "Sets the playback stream volume", Optional: true},
		{Name: "Recorder", Command: cfg.Launch.RecorderBinary, Description: "Recording application", Optional: true},
	}
	if wrapper := strings.TrimSpace(cfg.Launch.JackWrapper); wrapper != "" {
		reqs = append(reqs, Requirement{Name: "JACK wrapper", Command: wrapper, Description: "Runs the recorder against PipeWire's JACK API", Optional: true})
	}
	if fields := strings.Fields(cfg.Launch.EffectsCommand); len(fields) > 0 {
		reqs = append(reqs, Requirement{Name: "Effects", Command: fields[0], Description: "Effects processor", Optional: true})
	}
	if fields := strings.Fields(cfg.Launch.SoundboardCommand); len(fields) > 0 {
		reqs = append(reqs, Requirement{Name: "Soundboard", Command: fields[0], Description: "Soundboard launcher", Optional: true})
	}
	return reqs
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the unavailable non-optional statuses.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}
