package worker

import (
	"log"
	"os"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"teamboard/config"
	"teamboard/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.MigrateDB(db))
	return db
}

func testLogger() *log.Logger {
	return log.New(os.Stdout, "TEST-WORKER: ", log.LstdFlags)
}

func TestExpireStaleInvitations(t *testing.T) {
	db := newTestDB(t)
	iw := NewInvitationWorker(db, 7*24*time.Hour, testLogger())

	stale := models.Invitation{
		TeamID: 1,
		Email:  "stale@example.com",
		Role:   "viewer",
		Token:  "stale-token",
		Status: models.InvitationStatusPending,
	}
	stale.CreatedAt = time.Now().Add(-8 * 24 * time.Hour)
	require.NoError(t, db.Create(&stale).Error)

	fresh := models.Invitation{
		TeamID: 1,
		Email:  "fresh@example.com",
		Role:   "viewer",
		Token:  "fresh-token",
		Status: models.InvitationStatusPending,
	}
	require.NoError(t, db.Create(&fresh).Error)

	accepted := models.Invitation{
		TeamID: 1,
		Email:  "done@example.com",
		Role:   "viewer",
		Token:  "done-token",
		Status: models.InvitationStatusAccepted,
	}
	accepted.CreatedAt = time.Now().Add(-30 * 24 * time.Hour)
	require.NoError(t, db.Create(&accepted).Error)

	iw.expireStaleInvitations()

	statusOf := func(id uint) string {
		var got models.Invitation
		require.NoError(t, db.First(&got, id).Error)
		return got.Status
	}

	require.Equal(t, models.InvitationStatusExpired, statusOf(stale.ID))
	require.Equal(t, models.InvitationStatusPending, statusOf(fresh.ID))

	// Already-consumed invitations are left alone
	require.Equal(t, models.InvitationStatusAccepted, statusOf(accepted.ID))
}

func TestPruneOldActivity(t *testing.T) {
	db := newTestDB(t)
	aw := NewActivityWorker(db, 90*24*time.Hour, testLogger())

	old := models.Activity{TeamID: 1, UserID: 1, Action: "created", EntityType: "task", EntityID: 1}
	old.CreatedAt = time.Now().Add(-91 * 24 * time.Hour)
	require.NoError(t, db.Create(&old).Error)

	recent := models.Activity{TeamID: 1, UserID: 1, Action: "created", EntityType: "task", EntityID: 2}
	require.NoError(t, db.Create(&recent).Error)

	aw.pruneOldActivity()

	var count int64
	require.NoError(t, db.Model(&models.Activity{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	var got models.Activity
	require.NoError(t, db.First(&got).Error)
	require.Equal(t, recent.ID, got.ID)
}
