package constants

const (
	// Storage-level settings keys
	SettingAutoBackupEnabled    = "auto_backup_enabled"
	SettingLastAutoBackup       = "last_auto_backup"
	SettingNotificationsEnabled = "notifications_enabled"

	// Default Settings Values
	DefaultAutoBackupEnabled    = true
	DefaultNotificationsEnabled = false
	DefaultTimezone             = "Local" // Use system local timezone by default
)

// Snapshot keys, one per persisted entity collection
const (
	SnapshotHabits              = "habits"
	SnapshotCompletions         = "completions"
	SnapshotProfile             = "profile"
	SnapshotQuests              = "quests"
	SnapshotQuestsLastGenerated = "questsLastGenerated"

	// LegacySnapshotProfile is the key older clients stored the profile under
	LegacySnapshotProfile = "playerProfile"
)
