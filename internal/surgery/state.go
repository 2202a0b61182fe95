package surgery

// State is a stage of the simulated procedure.
type State int

const (
	StateIdle State = iota
	StateCaptured
	StateSegmented
	StateTargeted
	StateApproaching
	StateRemoving
	StateComposed
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateCaptured:
		return "Captured"
	case StateSegmented:
		return "Segmented"
	case StateTargeted:
		return "Targeted"
	case StateApproaching:
		return "Approaching"
	case StateRemoving:
		return "Removing"
	case StateComposed:
		return "Composed"
	case StateDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// next lists the forward transitions. Every state may also end at Done.
var next = map[State]State{
	StateIdle:        StateCaptured,
	StateCaptured:    StateSegmented,
	StateSegmented:   StateTargeted,
	StateTargeted:    StateApproaching,
	StateApproaching: StateRemoving,
	StateRemoving:    StateComposed,
	StateComposed:    StateDone,
}

// CanTransition reports whether the machine may move from one state to another.
func CanTransition(from, to State) bool {
	if from == StateDone {
		return false
	}
	return to == StateDone || next[from] == to
}
