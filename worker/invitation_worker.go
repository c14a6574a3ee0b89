package worker

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"teamboard/models"
)

// InvitationWorker expires pending invitations that were never accepted
type InvitationWorker struct {
	DB     *gorm.DB
	TTL    time.Duration
	Logger *log.Logger
}

func NewInvitationWorker(db *gorm.DB, ttl time.Duration, logger *log.Logger) *InvitationWorker {
	return &InvitationWorker{
		DB:     db,
		TTL:    ttl,
		Logger: logger,
	}
}

func (iw *InvitationWorker) Start(ctx context.Context) {
	// Initial delay to let the server start up
	time.Sleep(10 * time.Second)

	iw.Logger.Println("Invitation worker started")

	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			iw.Logger.Println("Invitation worker shutting down...")
			return
		case <-ticker.C:
			iw.expireStaleInvitations()
		}
	}
}

func (iw *InvitationWorker) expireStaleInvitations() {
	cutoff := time.Now().Add(-iw.TTL)

	result := iw.DB.Model(&models.Invitation{}).
		Where("status = ? AND created_at < ?", models.InvitationStatusPending, cutoff).
		Update("status", models.InvitationStatusExpired)
	if result.Error != nil {
		iw.Logger.Printf("Error expiring invitations: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		iw.Logger.Printf("Expired %d stale invitations", result.RowsAffected)
	}
}
