package constants

// CalendarMode selects which span the calendar grid renders
type CalendarMode string

const (
	AppName            = "yearlit"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/yearlit"
	DefaultStorePath   = "~/.config/yearlit/yearlit.db"
	ConfigFileName     = "config.toml"
	ConnectionEnvVar   = "YEARLIT_DB_CONNECTION"
	Version            = "v0.3.0"

	// DateFormat is the ISO calendar date format used for every day key (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Storage keys. These mirror the fixed identifiers of the original
	// browser key-value store so exported data stays recognisable.
	KeyRanges         = "yearlit.ranges"
	KeyEntries        = "yearlit.entries"
	KeyViewPref       = "yearlit.viewPref"
	KeyGuideDismissed = "yearlit.guideDismissed"

	// Entry constraints
	MinState      = 0
	MaxState      = 5
	MaxNoteLength = 50

	// Range constraints
	DefaultRangeName = "Untitled"
	MaxMilestones    = 20

	// Import / export
	MaxImportBytes  = 5 << 20
	SnapshotVersion = 1

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "yearlit-"
	BackupFileSuffix = ".json"

	// Writer lock
	LockfileName = "yearlit.lock"

	// Grid layout bounds for the responsive column search
	MinGridColumns = 7
	MaxGridColumns = 42

	CalendarModeYear   CalendarMode = "year"
	CalendarModeRange  CalendarMode = "range"
	CalendarModeCustom CalendarMode = "custom"
)
