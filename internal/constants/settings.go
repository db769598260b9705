package constants

const (
	// Environment variables read by the CLI
	EnvConfig   = "CYCLEFIT_CONFIG"
	EnvDebug    = "CYCLEFIT_DEBUG"
	EnvTimezone = "CYCLEFIT_TIMEZONE"
	EnvAddr     = "CYCLEFIT_ADDR"

	DefaultTimezone = "Local" // Use system local timezone by default
)
