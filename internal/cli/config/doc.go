// Package config holds the taskdeck CLI configuration (~/.taskdeck/cli.yaml).
//
// Values are layered by confloader: flags over TASKDECK_* environment
// variables over the file over Default.
package config
