// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Syncwatch is the canonical application identifier used for filesystem paths and CLI branding.
	Syncwatch = "syncwatch"

	// Version is the current application semantic version string.
	Version = "0.3.1"

	// Repository is the canonical source location, also used for release lookups.
	Repository = "https://github.com/syncwatch-cli/syncwatch"

	// UserAgent is sent with catalog requests and the websocket handshake.
	UserAgent = Syncwatch + "/" + Version
)

// Build metadata, overridden with -ldflags "-X" at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
