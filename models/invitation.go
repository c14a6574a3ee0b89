package models

import "gorm.io/gorm"

// Invitation statuses
const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusExpired  = "expired"
)

// Invitation lets a team admin invite a user by email. The token is a uuid
// handed out in the invitation mail and redeemed on acceptance. It stays in
// the payload so admins can relay it when no mailer is configured; the
// endpoints that return invitations are admin-gated.
type Invitation struct {
	gorm.Model
	TeamID uint   `gorm:"not null;index" json:"team_id"`
	Email  string `gorm:"not null;index" json:"email"`
	Role   string `gorm:"not null;default:'viewer'" json:"role"`
	Token  string `gorm:"uniqueIndex;not null" json:"token"`
	Status string `gorm:"not null;default:'pending'" json:"status"` // pending, accepted, expired

	// Relations
	Team Team `json:"-"`
}
