// Package command defines the taskdeck commands on urfave/cli/v2.
//
// A Runtime is created in the app's Before hook and kept in App.Metadata.
// Storage, the session store and the API client are opened on first use so
// that commands such as version and config never touch the credential store.
// The same app serves single-command mode and every line typed in the REPL.
package command
