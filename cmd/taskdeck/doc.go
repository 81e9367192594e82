// Command taskdeck is a terminal client for the task API.
//
// Usage:
//
//	taskdeck login --email you@example.com
//	taskdeck task list
//	taskdeck task add --title "Write report"
//	taskdeck                 # interactive mode
//
// The session token is kept in ~/.taskdeck/data between runs.
package main
