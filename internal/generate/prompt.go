package generate

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Decision answers an overwrite prompt.
type Decision int

const (
	Skip Decision = iota
	Overwrite
	// OverwriteAll overwrites this file and every later one of the run
	// without asking again.
	OverwriteAll
)

func (d Decision) String() string {
	switch d {
	case Overwrite:
		return "overwrite"
	case OverwriteAll:
		return "overwrite-all"
	default:
		return "skip"
	}
}

// Prompter is asked before an existing test file is replaced. allowAll is
// set when OverwriteAll is a valid answer.
type Prompter interface {
	ConfirmOverwrite(path string, allowAll bool) (Decision, error)
}

// FixedPrompter always returns the same decision.
type FixedPrompter struct {
	Decision Decision
}

func (p FixedPrompter) ConfirmOverwrite(string, bool) (Decision, error) {
	return p.Decision, nil
}

// StdPrompter asks on a terminal.
type StdPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewStdPrompter reads answers from in and writes questions to out.
func NewStdPrompter(in io.Reader, out io.Writer) *StdPrompter {
	return &StdPrompter{in: bufio.NewReader(in), out: out}
}

// ConfirmOverwrite asks until it gets a valid answer. End of input counts as
// skip.
func (p *StdPrompter) ConfirmOverwrite(path string, allowAll bool) (Decision, error) {
	choices := "[y]es/[n]o"
	if allowAll {
		choices += "/[a]ll"
	}
	for {
		fmt.Fprintf(p.out, "%s already exists. Overwrite? %s: ", path, choices)
		line, err := p.in.ReadString('\n')
		if err != nil && err != io.EOF {
			return Skip, fmt.Errorf("read answer: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return Overwrite, nil
		case "n", "no":
			return Skip, nil
		case "a", "all":
			if allowAll {
				return OverwriteAll, nil
			}
		}
		if err == io.EOF {
			fmt.Fprintln(p.out)
			return Skip, nil
		}
	}
}
