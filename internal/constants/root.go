package constants

const (
	AppName            = "focusplan"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/focusplan/focusplan.db"
	Version            = "v0.3.0"

	// EnvDBConnection holds a PostgreSQL connection string including credentials.
	EnvDBConnection = "FOCUSPLAN_DB_CONNECTION"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// DateTimeFormat is used for CLI input and output of timestamps
	DateTimeFormat = "2006-01-02 15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "focusplan-"
	BackupFileSuffix = ".db"

	// SubtaskTitleFormat names the checklist entry generated for each session
	SubtaskTitleFormat = "Part %d"

	// MaxPlacementIterations bounds the placement loop of one plan call
	MaxPlacementIterations = 2000
)
