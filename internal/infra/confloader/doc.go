// Package confloader layers configuration sources with koanf.
//
// Priority (highest to lowest):
//
//  1. Command-line flags (LoadMap)
//  2. Environment variables (TASKDECK_*)
//  3. Configuration file (YAML)
//  4. Defaults (LoadMap before Load)
//
// Watcher reports writes to a config file so a long-running REPL can pick
// up edits without restarting.
package confloader
