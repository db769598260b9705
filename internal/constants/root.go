package constants

const (
	AppName            = "cyclefit"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/cyclefit/cyclefit.db"
	DefaultAddr        = "127.0.0.1:8080"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// EnvDBConnection holds a PostgreSQL connection string when it is not kept in the keyring
	EnvDBConnection = "CYCLEFIT_DB_CONNECTION"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "cyclefit-"
	BackupFileSuffix = ".db"
)
