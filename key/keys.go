// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// DefinedFieldsCount represents the total cardinality of the application configuration schema.
const DefinedFieldsCount = 22

// Server Endpoints - these keys locate the sync server and the media catalog it serves.
const (
	ServerURL        = "server.url"
	ServerCatalogURL = "server.catalog_url"
)

// Media Catalog - these keys select the catalog variant and its local caching.
const (
	CatalogKind         = "catalog.kind"
	CatalogCacheMinutes = "catalog.cache_minutes"
)

// User Identity - these keys hold the display identity presented to other room members.
const (
	UserNickname = "user.nickname"
)

// Playback Synchronization - these keys tune echo suppression and the command settle windows.
const (
	SyncSeekThreshold      = "sync.seek_threshold"
	SyncGuardTimeoutMs     = "sync.guard_timeout_ms"
	SyncSettleGraceMs      = "sync.settle_grace_ms"
	SyncSeekSettleMs       = "sync.seek_settle_ms"
	SyncJoinDelayMs        = "sync.join_delay_ms"
	SyncResyncDelayMs      = "sync.resync_delay_ms"
	SyncProgressIntervalMs = "sync.progress_interval_ms"
)

// Connection Lifecycle - these keys govern the websocket reconnection policy.
const (
	ConnectionMaxAttempts      = "connection.max_attempts"
	ConnectionReconnectDelayMs = "connection.reconnect_delay_ms"
	ConnectionTimeoutMs        = "connection.timeout_ms"
)

// Media Playback - these keys maintain the configuration for the external video player.
const (
	Player = "player.default"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
