package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact is a directed "A may message B" edge. Invite redemption always
// writes both directions, so the relation is effectively mutual even though
// each row is owned by a single user. Rows are soft-deleted via IsActive so
// conversation history keeps its attribution.
type Contact struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	OwnerID       string `gorm:"uniqueIndex:idx_owner_contact_user" json:"ownerId"`
	ContactUserID string `gorm:"uniqueIndex:idx_owner_contact_user" json:"contactUserId"`
	ContactUser   User   `gorm:"foreignKey:ContactUserID" json:"contactUser,omitempty"`

	Alias    string `json:"alias"`
	IsActive bool   `gorm:"default:true" json:"isActive"`
}

func (c *Contact) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}
