package debate

import "testing"

func TestFailedReachableFromEveryNonTerminalState(t *testing.T) {
	for _, from := range []State{Init, Researching, Debating, Evaluating} {
		if !canTransition(from, Failed) {
			t.Errorf("Failed should be reachable from %s", from)
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, from := range []State{Completed, Failed} {
		for _, to := range []State{Init, Researching, Debating, Evaluating, Completed, Failed} {
			if canTransition(from, to) {
				t.Errorf("terminal state %s should not transition to %s", from, to)
			}
		}
	}
}

func TestPhasesAreStrictlySequential(t *testing.T) {
	cases := []struct {
		from, to State
		allowed  bool
	}{
		{Init, Researching, true},
		{Researching, Debating, true},
		{Debating, Debating, true}, // Round(k) -> Round(k+1)
		{Debating, Evaluating, true},
		{Evaluating, Completed, true},
		{Init, Debating, false},
		{Init, Evaluating, false},
		{Researching, Evaluating, false},
		{Debating, Completed, false},
		{Evaluating, Debating, false},
	}
	for _, c := range cases {
		if got := canTransition(c.from, c.to); got != c.allowed {
			t.Errorf("canTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.allowed)
		}
	}
}
