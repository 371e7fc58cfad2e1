package selection

// State is the lock state of a widget.
type State int

const (
	StateUnlocked State = iota
	StateLocked
)

func (s State) String() string {
	if s == StateLocked {
		return "locked"
	}
	return "unlocked"
}

// Outcome describes what an activation did.
type Outcome int

const (
	// OutcomeIgnored: the row was disabled.
	OutcomeIgnored Outcome = iota
	// OutcomeReplaced: single-choice mode swapped the selection.
	OutcomeReplaced
	// OutcomeDeselected: a selected row was cleared.
	OutcomeDeselected
	// OutcomeSelected: a row was added below the limit.
	OutcomeSelected
	// OutcomeLocked: a row was added and the limit was reached.
	OutcomeLocked
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeReplaced:
		return "replaced"
	case OutcomeDeselected:
		return "deselected"
	case OutcomeSelected:
		return "selected"
	case OutcomeLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// Changed reports whether the activation changed any state.
func (o Outcome) Changed() bool {
	return o != OutcomeIgnored
}
