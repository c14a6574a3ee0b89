package worker

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"teamboard/models"
)

// ActivityWorker prunes audit-feed rows past the retention window
type ActivityWorker struct {
	DB        *gorm.DB
	Retention time.Duration
	Logger    *log.Logger
}

func NewActivityWorker(db *gorm.DB, retention time.Duration, logger *log.Logger) *ActivityWorker {
	return &ActivityWorker{
		DB:        db,
		Retention: retention,
		Logger:    logger,
	}
}

func (aw *ActivityWorker) Start(ctx context.Context) {
	time.Sleep(10 * time.Second)

	aw.Logger.Println("Activity worker started")

	ticker := time.NewTicker(6 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			aw.Logger.Println("Activity worker shutting down...")
			return
		case <-ticker.C:
			aw.pruneOldActivity()
		}
	}
}

func (aw *ActivityWorker) pruneOldActivity() {
	cutoff := time.Now().Add(-aw.Retention)

	result := aw.DB.Unscoped().
		Where("created_at < ?", cutoff).
		Delete(&models.Activity{})
	if result.Error != nil {
		aw.Logger.Printf("Error pruning activity: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		aw.Logger.Printf("Pruned %d activity rows", result.RowsAffected)
	}
}
