// Package version carries build metadata set with -ldflags.
package version

// Version is overridden at build time:
//
//	go build -ldflags "-X github.com/petfit/backend/internal/version.Version=v1.2.0"
var Version = "dev"
