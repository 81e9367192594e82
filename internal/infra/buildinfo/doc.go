// Package buildinfo reports the version of the taskdeck binary.
//
// Release builds set the values with ldflags:
//
//	go build -ldflags "-X github.com/yndnr/taskdeck-go/internal/infra/buildinfo.Version=v0.3.0 \
//	  -X github.com/yndnr/taskdeck-go/internal/infra/buildinfo.Commit=$(git rev-parse --short HEAD)"
//
// Without ldflags, Commit and BuildTime fall back to the VCS stamp the Go
// toolchain embeds, when present.
package buildinfo
