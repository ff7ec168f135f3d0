package constants

import "time"

const (
	AppName            = "habitquest"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/habitquest"
	DefaultStorePath   = "~/.config/habitquest/habitquest.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups         = 14
	BackupDirName      = "backups"
	BackupFilePrefix   = "habitquest-"
	BackupFileSuffix   = ".json"
	AutoBackupInterval = 7 // calendar days

	// Notify constants
	NotifierLockfileName   = "habitquest-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.habitquest"
	TrayProcessPrefix      = "habitquest-tray"

	// Relay constants
	DefaultRelayDebounce = 2 * time.Second
	RelayTimeout         = 10 * time.Second

	// Quest constants
	DefaultDailyQuestCount = 3

	// Editable window, in calendar days before today
	EditableWindowDays = 2

	// Server constants
	DefaultServerAddr  = "127.0.0.1:8787"
	DefaultRateLimit   = 20
	DefaultRateBurst   = 40
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 10 * time.Second
)
