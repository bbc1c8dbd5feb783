package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/database"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/models"
	apperrors "github.com/MackG7/TP-Final-Integrador-Back-End/pkg/errors"
	"github.com/MackG7/TP-Final-Integrador-Back-End/pkg/logger"
	"github.com/MackG7/TP-Final-Integrador-Back-End/pkg/utils"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 25
	MaxPageSize     = 100

	unreadCacheTTL = 30 * time.Second
)

// MessagePage is one chronological page of a conversation's stream.
type MessagePage struct {
	Messages      []models.Message `json:"messages"`
	CurrentPage   int              `json:"currentPage"`
	TotalPages    int              `json:"totalPages"`
	TotalMessages int64            `json:"totalMessages"`
	HasNext       bool             `json:"hasNext"`
	HasPrev       bool             `json:"hasPrev"`
}

// SendMessage appends a message to a conversation the sender belongs to and
// rolls the conversation's lastMessageId/updatedAt forward. The metadata
// update is retried once; if it still cannot be confirmed the message stays
// durable and a partial failure is reported.
func SendMessage(convID, senderID, content string) (*models.Message, error) {
	content = utils.CleanContent(content)
	if content == "" {
		return nil, apperrors.BadRequest("Message content is required")
	}

	conv, err := GetConversation(convID)
	if err != nil {
		return nil, err
	}
	member, err := IsParticipant(convID, senderID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, apperrors.Forbidden("You are not part of this conversation")
	}

	msg := models.Message{
		ConversationID: convID,
		SenderID:       senderID,
		Content:        content,
	}
	if err := database.DB.Create(&msg).Error; err != nil {
		logger.Error().Err(err).Str("conversation_id", convID).Msg("Message insert failed")
		return nil, apperrors.Internal("Could not send message")
	}

	metadata := map[string]interface{}{"last_message_id": msg.ID, "updated_at": time.Now()}
	err = database.DB.Model(&models.Conversation{}).Where("id = ?", convID).Updates(metadata).Error
	if err != nil {
		// One retry; the update is idempotent
		err = database.DB.Model(&models.Conversation{}).Where("id = ?", convID).Updates(metadata).Error
	}
	if err != nil {
		logger.Error().Err(err).
			Str("conversation_id", convID).
			Str("message_id", msg.ID).
			Msg("Conversation metadata update unconfirmed after send")
		return &msg, apperrors.PartialFailure("Message stored but conversation update is unconfirmed")
	}

	for _, p := range conv.Participants {
		if p.UserID != senderID {
			database.CacheDelete(unreadCacheKey(convID, p.UserID))
		}
	}
	publishMessageSent(MessageEvent{ConversationID: convID, Message: msg, SentAt: time.Now()})

	return &msg, nil
}

// ListMessages pages through a conversation oldest to newest. Sorting is on
// the immutable creation order, so pages stay stable under concurrent
// inserts. Out-of-range pages come back empty, not as errors.
func ListMessages(convID, requesterID string, page, pageSize int) (*MessagePage, error) {
	if _, err := GetConversation(convID); err != nil {
		return nil, err
	}
	member, err := IsParticipant(convID, requesterID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, apperrors.Forbidden("You are not part of this conversation")
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	var total int64
	if err := database.DB.Model(&models.Message{}).
		Where("conversation_id = ?", convID).
		Count(&total).Error; err != nil {
		logger.Error().Err(err).Str("conversation_id", convID).Msg("Message count failed")
		return nil, apperrors.Internal("Could not list messages")
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	messages := []models.Message{}
	err = database.DB.Where("conversation_id = ?", convID).
		Order("created_at ASC, id ASC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&messages).Error
	if err != nil {
		logger.Error().Err(err).Str("conversation_id", convID).Msg("Message page fetch failed")
		return nil, apperrors.Internal("Could not list messages")
	}

	return &MessagePage{
		Messages:      messages,
		CurrentPage:   page,
		TotalPages:    totalPages,
		TotalMessages: total,
		HasNext:       page < totalPages,
		HasPrev:       page > 1 && total > 0,
	}, nil
}

// EditMessage rewrites a message's content. Only the original sender may
// edit; a missing message and someone else's message are indistinguishable.
func EditMessage(messageID, requesterID, newContent string) (*models.Message, error) {
	newContent = utils.CleanContent(newContent)
	if newContent == "" {
		return nil, apperrors.BadRequest("Message content is required")
	}

	msg, err := findOwnMessage(messageID, requesterID)
	if err != nil {
		return nil, err
	}
	if msg.IsDeleted {
		return nil, apperrors.Conflict("Cannot edit a deleted message")
	}

	now := time.Now()
	err = database.DB.Model(msg).Updates(map[string]interface{}{
		"content":   newContent,
		"edited_at": now,
	}).Error
	if err != nil {
		logger.Error().Err(err).Str("message_id", messageID).Msg("Message edit failed")
		return nil, apperrors.Internal("Could not edit message")
	}
	msg.Content = newContent
	msg.EditedAt = &now
	return msg, nil
}

// DeleteMessage replaces a message's content with the tombstone, preserving
// id, sender and creation time. Same visibility rule as EditMessage; deleting
// an already-deleted message is a no-op.
func DeleteMessage(messageID, requesterID string) (*models.Message, error) {
	msg, err := findOwnMessage(messageID, requesterID)
	if err != nil {
		return nil, err
	}
	if msg.IsDeleted {
		return msg, nil
	}

	err = database.DB.Model(msg).Updates(map[string]interface{}{
		"content":    models.TombstoneContent,
		"is_deleted": true,
	}).Error
	if err != nil {
		logger.Error().Err(err).Str("message_id", messageID).Msg("Message deletion failed")
		return nil, apperrors.Internal("Could not delete message")
	}
	msg.Content = models.TombstoneContent
	msg.IsDeleted = true
	return msg, nil
}

func findOwnMessage(messageID, requesterID string) (*models.Message, error) {
	var msg models.Message
	err := database.DB.First(&msg, "id = ?", messageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Message not found or no permission")
	}
	if err != nil {
		logger.Error().Err(err).Str("message_id", messageID).Msg("Message lookup failed")
		return nil, apperrors.Internal("Could not load message")
	}
	// Masked as not-found so callers cannot probe other users' messages
	if msg.SenderID != requesterID {
		return nil, apperrors.NotFound("Message not found or no permission")
	}
	return &msg, nil
}

// MarkConversationRead records receipts for every message in the
// conversation the reader has not seen yet. Re-marking is a no-op. Returns
// the number of newly read messages.
func MarkConversationRead(convID, readerID string) (int64, error) {
	if _, err := GetConversation(convID); err != nil {
		return 0, err
	}
	member, err := IsParticipant(convID, readerID)
	if err != nil {
		return 0, err
	}
	if !member {
		return 0, apperrors.Forbidden("You are not part of this conversation")
	}

	res := database.DB.Exec(
		`INSERT INTO message_receipts (message_id, user_id, read_at)
		 SELECT m.id, ?, ? FROM messages m
		 WHERE m.conversation_id = ? AND m.sender_id <> ?
		 ON CONFLICT DO NOTHING`,
		readerID, time.Now(), convID, readerID)
	if res.Error != nil {
		logger.Error().Err(res.Error).Str("conversation_id", convID).Msg("Read marking failed")
		return 0, apperrors.Internal("Could not mark conversation as read")
	}

	database.CacheDelete(unreadCacheKey(convID, readerID))
	return res.RowsAffected, nil
}

// UnreadCount counts messages addressed to the user without a read receipt.
// Results are cached briefly; the cache is best-effort only.
func UnreadCount(convID, userID string) (int64, error) {
	key := unreadCacheKey(convID, userID)
	var cached int64
	if err := database.CacheGet(key, &cached); err == nil {
		return cached, nil
	}

	var count int64
	err := database.DB.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ?", convID, userID).
		Where("NOT EXISTS (SELECT 1 FROM message_receipts r WHERE r.message_id = messages.id AND r.user_id = ?)", userID).
		Count(&count).Error
	if err != nil {
		logger.Error().Err(err).Str("conversation_id", convID).Msg("Unread count failed")
		return 0, apperrors.Internal("Could not count unread messages")
	}

	_ = database.CacheSet(key, count, unreadCacheTTL)
	return count, nil
}

func unreadCacheKey(convID, userID string) string {
	return fmt.Sprintf("unread:%s:%s", userID, convID)
}
