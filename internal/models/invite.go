package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InviteTTL is how long an invitation stays redeemable.
const InviteTTL = 24 * time.Hour

// Invite is a single-use, expiring invitation binding an inviter to an
// invited email address. It transitions pending -> used exactly once, or
// expires passively. Used and expired invites are kept for audit.
type Invite struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Token        string    `gorm:"uniqueIndex" json:"token"`
	OwnerID      string    `gorm:"index" json:"ownerId"`
	InvitedEmail string    `json:"invitedEmail"`
	ExpiresAt    time.Time `json:"expiresAt"`
	Used         bool      `gorm:"default:false" json:"used"`
	UsedByID     *string   `json:"usedBy,omitempty"`
}

func (i *Invite) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return
}

// Redeemable reports whether the invite can still be redeemed.
func (i *Invite) Redeemable() bool {
	return !i.Used && time.Now().Before(i.ExpiresAt)
}
