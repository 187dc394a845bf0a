package runner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Sentinel ends the current prompt loop. End of input reads as Sentinel.
const Sentinel = "."

// Prompter reads one answer per line. Labels go to the error stream so the
// output stream stays pure JSON.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter reads answers from in and writes labels to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Ask prints label and returns the trimmed answer.
func (p *Prompter) Ask(label string) string {
	fmt.Fprint(p.out, label)

	line, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		fmt.Fprintln(p.out)
		return Sentinel
	}
	return strings.TrimSpace(line)
}

// AskDefault prints "label [def]hint: " and returns def for a blank answer.
func (p *Prompter) AskDefault(label, def, hint string) string {
	answer := p.Ask(fmt.Sprintf("%s [%s]%s: ", label, def, hint))
	if answer == "" {
		return def
	}
	return answer
}

// done reports whether answer ends the loop: the sentinel, or nothing at all.
func done(answer string) bool {
	return answer == Sentinel || answer == ""
}
