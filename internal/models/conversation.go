package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ParticipantRole string

const (
	RoleAdmin  ParticipantRole = "admin"
	RoleMember ParticipantRole = "member"
)

func (r ParticipantRole) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Conversation is either a direct chat between exactly two users or a group.
// Direct chats carry a PairKey built from the sorted participant ids; the
// unique index on it is what guarantees at most one direct chat per pair,
// even under concurrent creation.
type Conversation struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	IsGroup bool    `gorm:"default:false" json:"isGroup"`
	PairKey *string `gorm:"uniqueIndex" json:"-"`

	// Group-only fields
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`

	CreatedByID string `gorm:"index" json:"createdBy"`

	// Weak reference for display only; the message stream is authoritative.
	LastMessageID *string `json:"lastMessageId,omitempty"`

	Participants []Participant `gorm:"foreignKey:ConversationID" json:"participants,omitempty"`
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// DirectPairKey canonicalizes an unordered user pair, so (A,B) and (B,A)
// always address the same direct chat.
func DirectPairKey(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return ids[0] + ":" + ids[1]
}

// Participant is one user's membership in a conversation. Direct-chat
// participants always hold the member role; group roles are admin or member.
type Participant struct {
	ConversationID string          `gorm:"primaryKey;type:text" json:"conversationId"`
	UserID         string          `gorm:"primaryKey;type:text" json:"userId"`
	Role           ParticipantRole `gorm:"type:text;default:'member'" json:"role"`
	JoinedAt       time.Time       `json:"joinedAt"`
}
