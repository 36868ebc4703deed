package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// prompter asks the operator for values the configuration did not provide
type prompter struct {
	in     *bufio.Reader
	out    io.Writer
	secret func() (string, error)
}

func newTerminalPrompter() *prompter {
	return &prompter{
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		secret: readPassword,
	}
}

// interactive reports whether stdin is a terminal
func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Ask prints label and returns the trimmed line typed in
func (p *prompter) Ask(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}

// AskSecret is like Ask but does not echo the input
func (p *prompter) AskSecret(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	value, err := p.secret()
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(value), nil
}

// Confirm asks a yes/no question; anything but y/yes is no
func (p *prompter) Confirm(question string) bool {
	answer, err := p.Ask(question + " (y/N)")
	if err != nil {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

// readPassword reads a line from the terminal without echo
func readPassword() (string, error) {
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
