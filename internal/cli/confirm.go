package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Decision is the outcome of the confirmation gate
type Decision int

const (
	Proceed Decision = iota
	DryRun
	Cancelled
)

func (d Decision) String() string {
	switch d {
	case Proceed:
		return "proceed"
	case DryRun:
		return "dry-run"
	default:
		return "cancelled"
	}
}

// Gate decides whether a planned action may run. A dry run never
// proceeds; otherwise the user is asked unless AssumeYes is set.
type Gate struct {
	DryRun    bool
	AssumeYes bool
	In        io.Reader
	Out       io.Writer
}

// Ask returns the decision for question
func (g Gate) Ask(question string) Decision {
	if g.DryRun {
		return DryRun
	}
	if g.AssumeYes {
		return Proceed
	}
	if Confirm(g.In, g.Out, question) {
		return Proceed
	}
	return Cancelled
}

// Confirm prints question and reads a y/yes answer from in. Anything
// else, including end of input, is a no.
func Confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "\n%s (yes/no): ", question)

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(out)
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
