package storage

import (
	"fmt"
	"strconv"
	"time"

	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/models"
)

// EncodeSettings flattens settings into the key/value rows used by the SQL
// and Redis backends.
func EncodeSettings(s models.AppSettings) map[string]string {
	last := ""
	if s.LastAutoBackup != nil {
		last = s.LastAutoBackup.UTC().Format(time.RFC3339)
	}
	return map[string]string{
		constants.SettingAutoBackupEnabled:    strconv.FormatBool(s.AutoBackupEnabled),
		constants.SettingLastAutoBackup:       last,
		constants.SettingNotificationsEnabled: strconv.FormatBool(s.NotificationsEnabled),
	}
}

// DecodeSettings is the inverse of EncodeSettings. Missing keys keep their
// defaults; unknown keys are ignored.
func DecodeSettings(kv map[string]string) (models.AppSettings, error) {
	s := models.DefaultAppSettings()
	for key, value := range kv {
		switch key {
		case constants.SettingAutoBackupEnabled:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return models.AppSettings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			s.AutoBackupEnabled = b
		case constants.SettingNotificationsEnabled:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return models.AppSettings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			s.NotificationsEnabled = b
		case constants.SettingLastAutoBackup:
			if value == "" {
				continue
			}
			t, err := time.Parse(time.RFC3339, value)
			if err != nil {
				return models.AppSettings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			s.LastAutoBackup = &t
		}
	}
	return s, nil
}
