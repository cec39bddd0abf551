package db

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/loci-labs/palace/internal/config"
	"github.com/loci-labs/palace/internal/models"
)

// GetSetting returns the value for a settings key, or "" when unset.
// Read fresh on every call so a change takes effect on the next operation.
func (db *DB) GetSetting(key string) string {
	var setting models.Setting
	err := db.Where("key = ?", key).First(&setting).Error
	if err != nil {
		// Missing key and read failure both present as unset; callers
		// apply their own defaults.
		return ""
	}
	return setting.Value
}

// SetSetting writes a settings key, inserting or updating as needed.
func (db *DB) SetSetting(key, value string) error {
	setting := models.Setting{Key: key, Value: value}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}

// ListSettings returns all settings ordered by key.
func (db *DB) ListSettings() ([]models.Setting, error) {
	var settings []models.Setting
	err := db.Order("key").Find(&settings).Error
	return settings, err
}

// seedSettings inserts defaults for missing keys, then applies overrides
// (environment variables) unconditionally.
func (db *DB) seedSettings(overrides map[string]string) error {
	for key, value := range config.DefaultSettings {
		setting := models.Setting{Key: key, Value: value}
		result := db.Where("key = ?", key).FirstOrCreate(&setting)
		if result.Error != nil {
			return result.Error
		}
	}

	for key, value := range overrides {
		if err := db.SetSetting(key, value); err != nil {
			return err
		}
	}

	return nil
}

// Settings returns an accessor bound to this database, satisfying the
// embedding layer's read-fresh-per-call configuration contract.
func (db *DB) Settings() SettingsAccessor {
	return SettingsAccessor{db: db}
}

// SettingsAccessor adapts DB to the embedding.Settings interface.
type SettingsAccessor struct {
	db *DB
}

// Get returns the current value for key, or "" when unset.
func (s SettingsAccessor) Get(key string) string {
	return s.db.GetSetting(key)
}

// ErrRecordNotFound is re-exported for callers checking lookup misses.
var ErrRecordNotFound = gorm.ErrRecordNotFound
