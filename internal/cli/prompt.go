package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// terminalPrompter asks on out and reads answers line by line from in.
type terminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newTerminalPrompter(in io.Reader, out io.Writer) *terminalPrompter {
	return &terminalPrompter{in: bufio.NewReader(in), out: out}
}

func (p *terminalPrompter) Alert(msg string) {
	fmt.Fprintln(p.out, StyleError.Render(msg))
}

// Confirm accepts "s", "si", "sí", "y" and "yes". Anything else, including
// end of input, is a no.
func (p *terminalPrompter) Confirm(question string) bool {
	fmt.Fprintf(p.out, "%s [s/N] ", question)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(p.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "si", "sí", "y", "yes":
		return true
	}
	return false
}

// yesPrompter confirms everything; used for rm --yes.
type yesPrompter struct {
	*terminalPrompter
}

func (yesPrompter) Confirm(string) bool { return true }
