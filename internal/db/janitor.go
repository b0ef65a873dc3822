package db

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/zulandar/quotewire/internal/models"
)

// AbandonStaleSessions marks active sessions with no activity for the
// given duration as completed with reason "abandoned". Calls that die
// without a status callback would otherwise stay active forever.
func AbandonStaleSessions(db *gorm.DB, inactiveFor time.Duration) (int64, error) {
	cutoff := time.Now().Add(-inactiveFor)
	now := time.Now()
	result := db.Model(&models.Session{}).
		Where("status = ? AND updated_at < ?", models.SessionActive, cutoff).
		Updates(map[string]interface{}{
			"status":       models.SessionCompleted,
			"end_reason":   "abandoned",
			"completed_at": &now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("db: abandon stale sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ArchiveCompletedSessions archives completed sessions older than the
// given duration. Archived sessions stay queryable but drop out of the
// default dashboards.
func ArchiveCompletedSessions(db *gorm.DB, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result := db.Model(&models.Session{}).
		Where("status = ? AND completed_at < ?", models.SessionCompleted, cutoff).
		Update("status", models.SessionArchived)
	if result.Error != nil {
		return 0, fmt.Errorf("db: archive completed sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
