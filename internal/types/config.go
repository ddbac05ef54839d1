package types

type RunMode string

const (
	// ModeLocal runs the timeline builder once against the configured accounts and exits
	ModeLocal RunMode = "local"
	// ModeWorker runs the timeline builder as a long lived process owned by the invoice worker
	ModeWorker RunMode = "worker"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)
