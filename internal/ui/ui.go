// Package ui prints gptsh's terminal output and asks for confirmation.
package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

// ErrNotInteractive is returned by Confirm when stdin is not a terminal.
var ErrNotInteractive = errors.New("confirmation needs an interactive terminal (use --yes)")

var (
	heading = color.New(color.FgCyan, color.Bold)
	command = color.New(color.FgGreen, color.Bold)
	warn    = color.New(color.FgYellow)
	failure = color.New(color.FgRed, color.Bold)
	debug   = color.New(color.FgHiBlack)
)

// Printer writes suggestions to Out and diagnostics to Err.
type Printer struct {
	Out     io.Writer
	Err     io.Writer
	Verbose bool
}

// NewPrinter returns a Printer on stdout and stderr.
func NewPrinter(verbose bool) *Printer {
	return &Printer{Out: os.Stdout, Err: os.Stderr, Verbose: verbose}
}

// Command prints a generated command or answer on its own line.
func (p *Printer) Command(text string) {
	command.Fprintln(p.Out, text)
}

// Heading prints a highlighted line to stderr.
func (p *Printer) Heading(format string, args ...any) {
	heading.Fprintf(p.Err, format+"\n", args...)
}

// Info prints a plain diagnostic line to stderr.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.Err, format+"\n", args...)
}

// Warn prints a warning to stderr.
func (p *Printer) Warn(format string, args ...any) {
	warn.Fprintf(p.Err, "Warning: "+format+"\n", args...)
}

// Error prints an error to stderr.
func (p *Printer) Error(format string, args ...any) {
	failure.Fprintf(p.Err, "Error: "+format+"\n", args...)
}

// Debug prints to stderr only in verbose mode.
func (p *Printer) Debug(format string, args ...any) {
	if !p.Verbose {
		return
	}
	debug.Fprintf(p.Err, format+"\n", args...)
}

var isTerminal = term.IsTerminal

// Interactive reports whether stdin is a terminal.
func Interactive() bool {
	return isTerminal(int(os.Stdin.Fd()))
}

// Confirm asks a yes/no question. Without a terminal it returns
// ErrNotInteractive instead of blocking.
func Confirm(label string) (bool, error) {
	if !Interactive() {
		return false, ErrNotInteractive
	}
	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := p.Run()
	return ParseConfirm(err)
}

// ParseConfirm converts the result of a promptui confirm prompt. promptui
// reports "no" as ErrAbort.
func ParseConfirm(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	case errors.Is(err, promptui.ErrInterrupt), errors.Is(err, promptui.ErrEOF):
		return false, fmt.Errorf("confirmation cancelled: %w", err)
	default:
		return false, err
	}
}

// Indent prefixes every line of s with two spaces.
func Indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}
