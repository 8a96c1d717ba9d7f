package constants

const (
	// Config file keys
	SettingStore        = "store"
	SettingTimezone     = "timezone"
	SettingDefaultMode  = "default_mode"
	SettingImportPolicy = "import_policy"
	SettingDebug        = "debug"

	// Default Settings Values
	DefaultTimezone     = "Local" // Use system local timezone by default
	DefaultMode         = string(CalendarModeYear)
	DefaultImportPolicy = "merge"
)
