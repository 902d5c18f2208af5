package session

// State is the progress of one run.
type State string

const (
	StateStart    State = "start"
	StateQueried  State = "queried"
	StateTornDown State = "torn_down"
	StateRouted   State = "routed"
	StateDone     State = "done"
	StateFailed   State = "failed"
)

// Terminal reports whether no further transitions follow.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
