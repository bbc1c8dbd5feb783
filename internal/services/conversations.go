package services

import (
	"errors"
	"strings"
	"time"

	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/database"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/models"
	apperrors "github.com/MackG7/TP-Final-Integrador-Back-End/pkg/errors"
	"github.com/MackG7/TP-Final-Integrador-Back-End/pkg/logger"
	"gorm.io/gorm"
)

// ConversationSummary tags a conversation with a discriminant and the
// caller's unread count for listing.
type ConversationSummary struct {
	models.Conversation
	Type        string `json:"type"`
	UnreadCount int64  `json:"unreadCount"`
}

// GetOrCreateDirect resolves the unique direct conversation between the
// caller and another user, creating it if needed. Requires the caller's own
// active contact row towards the other user.
func GetOrCreateDirect(callerID, otherID string) (*models.Conversation, error) {
	if otherID == "" {
		return nil, apperrors.BadRequest("contactUserId is required")
	}
	if otherID == callerID {
		return nil, apperrors.BadRequest("Cannot open a chat with yourself")
	}

	ok, err := HasActiveContact(callerID, otherID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.Forbidden("User is not in your contacts")
	}

	pairKey := models.DirectPairKey(callerID, otherID)
	conv, err := findDirectByPairKey(pairKey)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error().Err(err).Msg("Direct conversation lookup failed")
		return nil, apperrors.Internal("Could not open conversation")
	}

	return createDirect(callerID, otherID, pairKey)
}

func findDirectByPairKey(pairKey string) (*models.Conversation, error) {
	var conv models.Conversation
	err := database.DB.Preload("Participants").
		Where("pair_key = ? AND is_group = ?", pairKey, false).
		First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// createDirect inserts the conversation guarded by the unique pair_key index.
// Losing a concurrent creation race is not an error: re-read and return the
// winner.
func createDirect(callerID, otherID, pairKey string) (*models.Conversation, error) {
	now := time.Now()
	conv := models.Conversation{
		IsGroup:     false,
		PairKey:     &pairKey,
		CreatedByID: callerID,
	}
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&conv).Error; err != nil {
			return err
		}
		participants := []models.Participant{
			{ConversationID: conv.ID, UserID: callerID, Role: models.RoleMember, JoinedAt: now},
			{ConversationID: conv.ID, UserID: otherID, Role: models.RoleMember, JoinedAt: now},
		}
		return tx.Create(&participants).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			winner, rerr := findDirectByPairKey(pairKey)
			if rerr != nil {
				logger.Error().Err(rerr).Msg("Conversation re-read after conflict failed")
				return nil, apperrors.Internal("Could not open conversation")
			}
			return winner, nil
		}
		logger.Error().Err(err).Msg("Direct conversation creation failed")
		return nil, apperrors.Internal("Could not open conversation")
	}

	conv.Participants = []models.Participant{
		{ConversationID: conv.ID, UserID: callerID, Role: models.RoleMember, JoinedAt: now},
		{ConversationID: conv.ID, UserID: otherID, Role: models.RoleMember, JoinedAt: now},
	}
	return &conv, nil
}

// CreateGroup creates a group conversation. The creator always joins as
// admin; initial members join with the member role, deduplicated.
func CreateGroup(creatorID, name, description string, memberIDs []string) (*models.Conversation, error) {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < 2 {
		return nil, apperrors.BadRequest("Group name must be at least 2 characters")
	}

	now := time.Now()
	conv := models.Conversation{
		IsGroup:     true,
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedByID: creatorID,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&conv).Error; err != nil {
			return err
		}

		seen := map[string]bool{creatorID: true}
		participants := []models.Participant{
			{ConversationID: conv.ID, UserID: creatorID, Role: models.RoleAdmin, JoinedAt: now},
		}
		for _, id := range memberIDs {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			participants = append(participants, models.Participant{
				ConversationID: conv.ID,
				UserID:         id,
				Role:           models.RoleMember,
				JoinedAt:       now,
			})
		}
		conv.Participants = participants
		return tx.Create(&participants).Error
	})
	if err != nil {
		logger.Error().Err(err).Str("creator_id", creatorID).Msg("Group creation failed")
		return nil, apperrors.Internal("Could not create group")
	}
	return &conv, nil
}

// ListForUser returns every conversation the user belongs to, most recent
// activity first, tagged direct|group with the user's unread count.
func ListForUser(userID string) ([]ConversationSummary, error) {
	var conversations []models.Conversation
	err := database.DB.Preload("Participants").
		Joins("JOIN participants ON participants.conversation_id = conversations.id").
		Where("participants.user_id = ?", userID).
		Order("conversations.updated_at DESC").
		Find(&conversations).Error
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Conversation listing failed")
		return nil, apperrors.Internal("Could not list conversations")
	}

	summaries := make([]ConversationSummary, 0, len(conversations))
	for _, conv := range conversations {
		kind := "direct"
		if conv.IsGroup {
			kind = "group"
		}
		unread, err := UnreadCount(conv.ID, userID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, ConversationSummary{
			Conversation: conv,
			Type:         kind,
			UnreadCount:  unread,
		})
	}
	return summaries, nil
}

// GetConversation loads a conversation by id.
func GetConversation(convID string) (*models.Conversation, error) {
	var conv models.Conversation
	err := database.DB.Preload("Participants").First(&conv, "id = ?", convID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Conversation not found")
	}
	if err != nil {
		logger.Error().Err(err).Str("conversation_id", convID).Msg("Conversation lookup failed")
		return nil, apperrors.Internal("Could not load conversation")
	}
	return &conv, nil
}

// IsParticipant reports whether the user belongs to the conversation.
func IsParticipant(convID, userID string) (bool, error) {
	var count int64
	err := database.DB.Model(&models.Participant{}).
		Where("conversation_id = ? AND user_id = ?", convID, userID).
		Count(&count).Error
	if err != nil {
		logger.Error().Err(err).Str("conversation_id", convID).Msg("Participant check failed")
		return false, apperrors.Internal("Could not verify membership")
	}
	return count > 0, nil
}

// DeleteConversation removes a conversation with its message stream. Direct
// chats may be deleted by either participant, groups only by their creator.
func DeleteConversation(convID, requesterID string) error {
	conv, err := GetConversation(convID)
	if err != nil {
		return err
	}

	if conv.IsGroup {
		if conv.CreatedByID != requesterID {
			return apperrors.Forbidden("Only the group creator can delete the group")
		}
	} else {
		member, err := IsParticipant(convID, requesterID)
		if err != nil {
			return err
		}
		if !member {
			return apperrors.Forbidden("You are not part of this conversation")
		}
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`DELETE FROM message_receipts WHERE message_id IN (SELECT id FROM messages WHERE conversation_id = ?)`,
			convID).Error; err != nil {
			return err
		}
		if err := tx.Where("conversation_id = ?", convID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("conversation_id = ?", convID).Delete(&models.Participant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Conversation{}, "id = ?", convID).Error
	})
	if err != nil {
		logger.Error().Err(err).Str("conversation_id", convID).Msg("Conversation deletion failed")
		return apperrors.Internal("Could not delete conversation")
	}
	return nil
}
