// Package version provides build and version information for Fable Engine.
package version

// Version is the current release version of Fable Engine.
// This can be overridden at build time using:
//
//	go build -ldflags "-X github.com/fableforge/fableengine/internal/version.Version=x.y.z"
var Version = "1.0.0"
