package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompter asks yes/no questions on a reader/writer pair.
type Prompter struct {
	In  io.Reader
	Out io.Writer
}

// StdPrompter prompts on the process terminal.
func StdPrompter() *Prompter { return &Prompter{In: os.Stdin, Out: os.Stderr} }

// Confirm asks prompt and returns true only for "y" or "yes".
func (p *Prompter) Confirm(prompt string) bool {
	return p.ask(StyleWarning.Render(prompt))
}

// ConfirmDanger is Confirm styled for actions that move funds or delete keys.
func (p *Prompter) ConfirmDanger(prompt string) bool {
	return p.ask(StyleError.Render("⚠ " + prompt))
}

func (p *Prompter) ask(styled string) bool {
	fmt.Fprintf(p.Out, "%s [y/N]: ", styled)
	line, _ := bufio.NewReader(p.In).ReadString('\n')
	line = strings.TrimSpace(strings.ToLower(line))
	return line == "y" || line == "yes"
}
