// Package repl runs taskdeck interactively.
//
// Each line is split into fields and handed to an executor, normally the
// same urfave/cli app used in single-command mode. A line ending in "?"
// lists the commands starting with what precedes it. History is kept in a
// file between runs.
package repl
