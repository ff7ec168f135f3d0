package models

import (
	"time"

	"github.com/julianstephens/habitquest/internal/constants"
)

// AppSettings represents storage-level application settings that are not part of the export bundle
type AppSettings struct {
	AutoBackupEnabled    bool       `json:"auto_backup_enabled"`   // weekly automatic backups
	LastAutoBackup       *time.Time `json:"last_auto_backup"`      // when the last automatic backup ran
	NotificationsEnabled bool       `json:"notifications_enabled"` // permission to raise desktop notifications
}

// DefaultAppSettings returns the settings written on first initialization.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		AutoBackupEnabled:    constants.DefaultAutoBackupEnabled,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
	}
}
