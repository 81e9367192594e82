package repl

import (
	"sort"
	"strings"
)

// Builtins are handled by the REPL itself.
var Builtins = []string{"exit", "quit", "history"}

// Completer suggests commands by prefix.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer over commands plus the builtins.
func NewCompleter(commands []string) *Completer {
	seen := make(map[string]struct{}, len(commands)+len(Builtins))
	all := make([]string, 0, len(commands)+len(Builtins))
	for _, cmd := range append(append([]string{}, commands...), Builtins...) {
		if _, ok := seen[cmd]; ok || cmd == "" {
			continue
		}
		seen[cmd] = struct{}{}
		all = append(all, cmd)
	}
	sort.Strings(all)
	return &Completer{commands: all}
}

// Complete returns the commands that start with prefix, in sorted order.
// Runs of spaces in prefix count as one.
func (c *Completer) Complete(prefix string) []string {
	prefix = strings.Join(strings.Fields(prefix), " ")
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
