// Package terminal implements the interactive read-eval-print loop for
// the podcast assistant. Each command is awaited to completion before
// the next prompt is shown.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/podsage/podsage/assistant"
)

// Terminal drives an Assistant from a line-oriented input stream.
type Terminal struct {
	assistant *assistant.Assistant
	in        io.Reader
	out       io.Writer
}

// New creates a new Terminal instance.
func New(a *assistant.Assistant, in io.Reader, out io.Writer) *Terminal {
	return &Terminal{assistant: a, in: in, out: out}
}

// Run starts the interactive session: banner, initial feed fetch, then
// one command per line until "exit" or end of input.
func (t *Terminal) Run(ctx context.Context, initialFeed string) error {
	fmt.Fprintln(t.out, "\n===== Podcast Assistant =====")
	fmt.Fprintln(t.out, "Type 'help' for available commands or 'exit' to quit")

	if err := t.assistant.Start(ctx, initialFeed); err != nil {
		return err
	}

	scanner := bufio.NewScanner(t.in)
	for {
		fmt.Fprint(t.out, "\nWhat would you like to do? > ")
		if !scanner.Scan() {
			// EOF or read error ends the session
			break
		}

		command := strings.TrimSpace(scanner.Text())
		if command == "" {
			continue
		}

		keepRunning, err := t.assistant.Process(ctx, command)
		if err != nil {
			fmt.Fprintf(t.out, "Error: %v\n", err)
		}
		if !keepRunning {
			break
		}
	}

	return scanner.Err()
}
