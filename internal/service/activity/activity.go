package activity

import (
	"context"
	"time"

	"github.com/Skotchmaster/pos_backend/internal/models"
	"gorm.io/gorm"
)

// Record appends an audit row. Best-effort: callers log the error and
// never fail the primary operation over it.
func Record(ctx context.Context, db *gorm.DB, action, details string) error {
	now := time.Now()
	log := models.ActivityLog{
		Action:    action,
		Details:   details,
		Timestamp: now.Unix(),
		DateTime:  now.Format(models.DateTimeLayout),
	}
	return db.WithContext(ctx).Create(&log).Error
}

// List returns the current day's log, deleting anything older first.
// The log is self-pruning on read, there is no scheduled cleanup.
func List(ctx context.Context, db *gorm.DB) ([]models.ActivityLog, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if err := db.WithContext(ctx).
		Where("timestamp < ?", startOfDay.Unix()).
		Delete(&models.ActivityLog{}).Error; err != nil {
		return nil, err
	}

	var logs []models.ActivityLog
	if err := db.WithContext(ctx).Order("timestamp DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
