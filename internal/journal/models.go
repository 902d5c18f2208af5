package journal

import "time"

// Outcome kinds for route rows.
const (
	OutcomeInstalled = "installed"
	OutcomeSkipped   = "skipped"
)

// Trigger names what started a run.
type Trigger string

const (
	TriggerManual  Trigger = "manual"
	TriggerLaunch  Trigger = "launch"
	TriggerHotplug Trigger = "hotplug"
)

// Run is one journaled reconfigure.
type Run struct {
	ID              string
	Template        string
	Trigger         Trigger
	State           string
	FailedFrom      string
	ErrorMessage    string
	SlotsCaptured   int
	RoutesInstalled int
	RoutesSkipped   int
	StartedAt       time.Time
	FinishedAt      time.Time
}

// Succeeded reports whether the run reached its done state.
func (r Run) Succeeded() bool {
	return r.State == "done"
}

// RouteOutcome is one route's result within a run.
type RouteOutcome struct {
	Position int
	Route    string
	Outcome  string
	Output   string
	Input    string
	Reason   string
}
