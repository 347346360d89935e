package handler

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// nextRecordNumber allocates the next human-readable record number for the
// current month, e.g. "VIR-072025-001". The sequence restarts every month.
func nextRecordNumber(db *gorm.DB, entity interface{}, prefix string) (string, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var count int64
	if err := db.Model(entity).Where("created_at >= ?", monthStart).Count(&count).Error; err != nil {
		return "", fmt.Errorf("failed to count records for numbering: %w", err)
	}

	return fmt.Sprintf("%s-%s-%03d", prefix, now.Format("012006"), count+1), nil
}
