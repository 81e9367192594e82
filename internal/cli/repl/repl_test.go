package repl

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

type recorder struct {
	calls [][]string
	err   error
}

func (r *recorder) exec(_ context.Context, args []string) error {
	r.calls = append(r.calls, args)
	return r.err
}

func newTestREPL(input string, rec *recorder) (*REPL, *bytes.Buffer) {
	out := &bytes.Buffer{}
	r := New(Options{
		In:        strings.NewReader(input),
		Out:       out,
		Completer: NewCompleter([]string{"task", "task list", "task toggle", "whoami"}),
		Exec:      rec.exec,
	})
	return r, out
}

func TestREPL_Run_Exit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"exit", "exit\nwhoami\n"},
		{"quit", "quit\nwhoami\n"},
		{"EOF", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			r, _ := newTestREPL(tt.input, rec)
			if err := r.Run(context.Background()); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if len(rec.calls) != 0 {
				t.Errorf("exec called %d times after exit", len(rec.calls))
			}
		})
	}
}

func TestREPL_Run_ExecutesFields(t *testing.T) {
	rec := &recorder{}
	r, out := newTestREPL("\n\n  task   toggle  42 \nwhoami\n", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := [][]string{{"task", "toggle", "42"}, {"whoami"}}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls = %v, want %v", rec.calls, want)
	}
	if n := strings.Count(out.String(), DefaultPrompt); n != 5 {
		t.Errorf("prompts = %d, want 5", n)
	}
}

func TestREPL_Run_LastLineWithoutNewline(t *testing.T) {
	rec := &recorder{}
	r, _ := newTestREPL("whoami", rec)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(rec.calls) != 1 {
		t.Errorf("calls = %v", rec.calls)
	}
}

func TestREPL_Run_ErrorsArePrinted(t *testing.T) {
	rec := &recorder{err: errors.New("not logged in")}
	r, out := newTestREPL("whoami\nexit\n", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Error: not logged in") {
		t.Errorf("output = %q", out.String())
	}
}

func TestREPL_Run_Completion(t *testing.T) {
	rec := &recorder{}
	r, out := newTestREPL("task ?\nexit\n", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("completion should not execute: %v", rec.calls)
	}
	for _, want := range []string{"task list\n", "task toggle\n"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q: %q", want, out.String())
		}
	}
	if r.history.Get(0) != "exit" || r.history.Get(1) != "" {
		t.Errorf("completion request recorded in history: %v", r.history.Entries())
	}
}

func TestREPL_Run_History(t *testing.T) {
	rec := &recorder{}
	r, out := newTestREPL("whoami\ntask list\nhistory\nexit\n", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "   2  task list\n") {
		t.Errorf("history listing missing: %q", out.String())
	}
	if r.history.Get(0) != "exit" {
		t.Errorf("most recent = %q", r.history.Get(0))
	}
}

func TestREPL_Run_CancelledContext(t *testing.T) {
	rec := &recorder{}
	r, _ := newTestREPL("whoami\n", rec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(rec.calls) != 0 {
		t.Error("exec called after cancellation")
	}
}

func TestNew_SharesBufferedReader(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("exit\n"))
	r := New(Options{In: in, Out: &bytes.Buffer{}})
	if r.input != in {
		t.Error("New should reuse a *bufio.Reader")
	}
	if r.prompt != DefaultPrompt || r.history == nil || r.completer == nil {
		t.Error("defaults not applied")
	}
}
