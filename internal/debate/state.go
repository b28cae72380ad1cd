package debate

import "fmt"

// State is the orchestrator's phase. Transitions follow the table below;
// Failed is absorbing and reachable from every non-terminal state.
type State int

const (
	Init State = iota
	Researching
	Debating
	Evaluating
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Init:
		return "init"
	case Researching:
		return "researching"
	case Debating:
		return "debating"
	case Evaluating:
		return "evaluating"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// validTransitions is the explicit transition table. Debating → Debating
// models Round(k) → Round(k+1).
var validTransitions = map[State][]State{
	Init:        {Researching, Failed},
	Researching: {Debating, Failed},
	Debating:    {Debating, Evaluating, Failed},
	Evaluating:  {Completed, Failed},
	Completed:   {},
	Failed:      {},
}

func canTransition(from, to State) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
