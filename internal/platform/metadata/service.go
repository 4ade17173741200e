package metadata

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetValue retrieves a value for a given key. A missing key yields "".
func GetValue(ctx context.Context, db *gorm.DB, key string) (string, error) {
	var meta Metadata
	err := db.WithContext(ctx).Where("key = ?", key).First(&meta).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return meta.Value, nil
}

// SetValue creates or updates the value stored under key.
func SetValue(ctx context.Context, db *gorm.DB, key, value string) error {
	meta := Metadata{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&meta).Error
}

// GetLastScheduledGameDate returns the date last handled by the scheduler, or "".
func GetLastScheduledGameDate(ctx context.Context, db *gorm.DB) (string, error) {
	return GetValue(ctx, db, LastScheduledGameDateKey)
}

// SetLastScheduledGameDate records the date handled by the scheduler.
func SetLastScheduledGameDate(ctx context.Context, db *gorm.DB, date string) error {
	return SetValue(ctx, db, LastScheduledGameDateKey, date)
}

// IsFallbackSeeded reports whether the curated list was already imported.
func IsFallbackSeeded(ctx context.Context, db *gorm.DB) (bool, error) {
	value, err := GetValue(ctx, db, FallbackWordsSeededKey)
	if err != nil {
		return false, err
	}
	return value == "true", nil
}

// MarkFallbackSeeded records that the curated list has been imported.
func MarkFallbackSeeded(ctx context.Context, db *gorm.DB) error {
	return SetValue(ctx, db, FallbackWordsSeededKey, "true")
}
