package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DefaultPrompt is shown before each line.
const DefaultPrompt = "taskdeck> "

// ExecFunc runs one command line, already split into arguments.
type ExecFunc func(ctx context.Context, args []string) error

// Options configures a REPL.
type Options struct {
	// In is wrapped in a bufio.Reader unless it already is one. Commands
	// that prompt for input should read from the same reader.
	In        io.Reader
	Out       io.Writer
	Prompt    string
	History   *History
	Completer *Completer
	Exec      ExecFunc
}

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     *bufio.Reader
	output    io.Writer
	prompt    string
	completer *Completer
	history   *History
	exec      ExecFunc
}

// New creates a REPL.
func New(opts Options) *REPL {
	in, ok := opts.In.(*bufio.Reader)
	if !ok {
		in = bufio.NewReader(opts.In)
	}
	r := &REPL{
		input:     in,
		output:    opts.Out,
		prompt:    opts.Prompt,
		completer: opts.Completer,
		history:   opts.History,
		exec:      opts.Exec,
	}
	if r.prompt == "" {
		r.prompt = DefaultPrompt
	}
	if r.completer == nil {
		r.completer = NewCompleter(nil)
	}
	if r.history == nil {
		r.history = NewHistory("", 0)
	}
	return r
}

// Run reads lines until exit, quit, end of input or ctx is cancelled.
func (r *REPL) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		fmt.Fprint(r.output, r.prompt)
		line, err := r.input.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := errors.Is(err, io.EOF)

		line = strings.TrimSpace(line)
		if line == "" {
			if eof {
				fmt.Fprintln(r.output)
				return nil
			}
			continue
		}

		if r.handle(ctx, line) || eof {
			return nil
		}
	}
}

// handle runs one non-empty line and reports whether the loop should end.
func (r *REPL) handle(ctx context.Context, line string) bool {
	if strings.HasSuffix(line, "?") {
		for _, s := range r.completer.Complete(strings.TrimSuffix(line, "?")) {
			fmt.Fprintln(r.output, s)
		}
		return false
	}

	r.history.Add(line)

	switch line {
	case "exit", "quit":
		return true
	case "history":
		for i, entry := range r.history.Entries() {
			fmt.Fprintf(r.output, "%4d  %s\n", i+1, entry)
		}
		return false
	}

	if r.exec == nil {
		return false
	}
	if err := r.exec(ctx, strings.Fields(line)); err != nil {
		fmt.Fprintf(r.output, "Error: %v\n", err)
	}
	return false
}
