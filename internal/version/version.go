// Package version holds the application version string.
package version

// Version is the current chartrelay release. Overridden at build time via
// -ldflags "-X github.com/avelk/chartrelay/internal/version.Version=...".
var Version = "0.2.0"
