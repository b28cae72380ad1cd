package output

import (
	"fmt"

	"github.com/roundtable-dev/roundtable/internal/debate"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiBlue   = "\033[34m"
	ansiCyan   = "\033[36m"
)

var perspectiveColors = map[debate.Perspective]string{
	debate.School:  ansiBlue,
	debate.Student: ansiGreen,
	debate.Parent:  ansiYellow,
}

// Colorize wraps s with an ANSI color code and reset.
func Colorize(color, s string) string { return color + s + ansiReset }

// Bold wraps s with ANSI bold and reset.
func Bold(s string) string { return ansiBold + s + ansiReset }

// PrintArgument prints a formatted accepted argument to stdout.
func PrintArgument(arg debate.Argument) {
	color := perspectiveColors[arg.Perspective]
	fmt.Printf("%s %s: %s\n",
		Colorize(ansiYellow, fmt.Sprintf("[Round %d]", arg.Round)),
		Bold(Colorize(color, arg.Perspective.Persona())),
		arg.Claim,
	)
}

// PrintState prints a phase transition banner.
func PrintState(state debate.State, round int) {
	label := state.String()
	color := ansiCyan
	switch state {
	case debate.Debating:
		label = fmt.Sprintf("round %d", round)
	case debate.Completed:
		color = ansiGreen
	case debate.Failed:
		color = ansiRed
	}
	fmt.Printf("\n%s\n\n", Colorize(ansiBold+color, "=== Phase: "+label+" ==="))
}

// PrintSummary prints the session outcome.
func PrintSummary(res *debate.Result) {
	if res.Completed() {
		fmt.Printf("Session: %s\n", Colorize(ansiBold+ansiGreen, "completed"))
	} else {
		fmt.Printf("Session: %s (%s)\n", Colorize(ansiBold+ansiRed, "failed"), res.Failure)
	}
	fmt.Printf("Rounds completed: %d\n", len(res.Transcript.Rounds))
	if res.Report != nil {
		fmt.Printf("\n%s\n%s\n", Bold("Recommendation:"), res.Report.Recommendation)
		if res.Report.Advice != "" {
			fmt.Printf("\n%s\n%s\n", Bold("Compromise solutions:"), res.Report.Advice)
		}
	}
}
