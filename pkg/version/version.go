// Package version holds the build version, overridden at release time
// via -ldflags "-X github.com/arborui/arbor/pkg/version.Version=...".
package version

// Version is the current arbor version.
var Version = "0.1.0-dev"
