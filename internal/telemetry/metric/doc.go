// Package metric records client-side Prometheus metrics for taskdeck.
//
// Metrics live in a private registry per process; nothing is exported over
// HTTP. The stats command gathers them and prints a flat listing, which is
// mostly useful from the REPL where a process issues many requests.
package metric
