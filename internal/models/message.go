package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TombstoneContent replaces the body of a deleted message. The row itself is
// kept so ordering and lastMessageId references stay valid.
const TombstoneContent = "This message was deleted"

type Message struct {
	ID string `gorm:"primaryKey;type:text" json:"id"`
	// CreatedAt doubles as the immutable pagination sort key.
	CreatedAt time.Time `gorm:"index:idx_messages_conv_created,priority:2" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ConversationID string `gorm:"index:idx_messages_conv_created,priority:1" json:"conversationId"`
	SenderID       string `gorm:"index" json:"senderId"`

	Content   string     `json:"content"`
	IsDeleted bool       `gorm:"default:false" json:"isDeleted"`
	EditedAt  *time.Time `json:"editedAt,omitempty"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}

// MessageReceipt records that a user has read a message. One row per
// (message, reader); inserts are conflict-free so re-marking is a no-op.
type MessageReceipt struct {
	MessageID string    `gorm:"primaryKey;type:text" json:"messageId"`
	UserID    string    `gorm:"primaryKey;type:text" json:"userId"`
	ReadAt    time.Time `json:"readAt"`
}
