package services

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/database"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/models"
	apperrors "github.com/MackG7/TP-Final-Integrador-Back-End/pkg/errors"
	"github.com/MackG7/TP-Final-Integrador-Back-End/pkg/logger"
	"gorm.io/gorm"
)

func getGroup(groupID string) (*models.Conversation, error) {
	conv, err := GetConversation(groupID)
	if err != nil {
		return nil, err
	}
	if !conv.IsGroup {
		return nil, apperrors.BadRequest("Conversation is not a group")
	}
	return conv, nil
}

func getMember(groupID, userID string) (*models.Participant, error) {
	var p models.Participant
	err := database.DB.Where("conversation_id = ? AND user_id = ?", groupID, userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Member not found")
	}
	if err != nil {
		logger.Error().Err(err).Str("group_id", groupID).Msg("Member lookup failed")
		return nil, apperrors.Internal("Could not load member")
	}
	return &p, nil
}

func requireAdmin(groupID, userID string) error {
	member, err := getMember(groupID, userID)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusNotFound {
			return apperrors.Forbidden("You are not a member of this group")
		}
		return err
	}
	if member.Role != models.RoleAdmin {
		return apperrors.Forbidden("Only group admins can do that")
	}
	return nil
}

// AddMember appends a user to a group with the member role. Admin-only.
func AddMember(groupID, newUserID, requesterID string) (*models.Participant, error) {
	if _, err := getGroup(groupID); err != nil {
		return nil, err
	}
	if err := requireAdmin(groupID, requesterID); err != nil {
		return nil, err
	}
	if _, err := FindUserByID(newUserID); err != nil {
		return nil, err
	}

	p := models.Participant{
		ConversationID: groupID,
		UserID:         newUserID,
		Role:           models.RoleMember,
		JoinedAt:       time.Now(),
	}
	if err := database.DB.Create(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("User is already a member of this group")
		}
		logger.Error().Err(err).Str("group_id", groupID).Msg("Member insert failed")
		return nil, apperrors.Internal("Could not add member")
	}
	return &p, nil
}

// RemoveMember removes a user from a group. Admins can remove anyone;
// non-admins can only remove themselves. The delete is guarded so the sole
// remaining admin can never be removed, even by concurrent requests.
func RemoveMember(groupID, targetUserID, requesterID string) error {
	if _, err := getGroup(groupID); err != nil {
		return err
	}
	if requesterID != targetUserID {
		if err := requireAdmin(groupID, requesterID); err != nil {
			return err
		}
	}
	if _, err := getMember(groupID, targetUserID); err != nil {
		return err
	}

	res := database.DB.Exec(
		`DELETE FROM participants
		 WHERE conversation_id = ? AND user_id = ?
		   AND (role <> 'admin'
		        OR (SELECT COUNT(*) FROM participants p2
		            WHERE p2.conversation_id = ? AND p2.role = 'admin') > 1)`,
		groupID, targetUserID, groupID)
	if res.Error != nil {
		logger.Error().Err(res.Error).Str("group_id", groupID).Msg("Member removal failed")
		return apperrors.Internal("Could not remove member")
	}
	if res.RowsAffected == 0 {
		// The member existed a moment ago, so the guard blocked the removal
		return apperrors.Conflict("The last admin cannot leave the group")
	}
	return nil
}

// SetRole changes a member's role. Admin-only; demoting the sole admin is
// rejected like a last-admin departure.
func SetRole(groupID, targetUserID, newRole, requesterID string) (*models.Participant, error) {
	role := models.ParticipantRole(strings.ToLower(strings.TrimSpace(newRole)))
	if !role.Valid() {
		return nil, apperrors.BadRequest("Role must be admin or member")
	}
	if _, err := getGroup(groupID); err != nil {
		return nil, err
	}
	if err := requireAdmin(groupID, requesterID); err != nil {
		return nil, err
	}
	member, err := getMember(groupID, targetUserID)
	if err != nil {
		return nil, err
	}
	if member.Role == role {
		return member, nil
	}

	if member.Role == models.RoleAdmin && role == models.RoleMember {
		admins, err := countAdmins(groupID)
		if err != nil {
			return nil, err
		}
		if admins <= 1 {
			return nil, apperrors.Conflict("The group must keep at least one admin")
		}
	}

	err = database.DB.Model(&models.Participant{}).
		Where("conversation_id = ? AND user_id = ?", groupID, targetUserID).
		Update("role", role).Error
	if err != nil {
		logger.Error().Err(err).Str("group_id", groupID).Msg("Role update failed")
		return nil, apperrors.Internal("Could not update role")
	}
	member.Role = role
	return member, nil
}

func countAdmins(groupID string) (int64, error) {
	var count int64
	err := database.DB.Model(&models.Participant{}).
		Where("conversation_id = ? AND role = ?", groupID, models.RoleAdmin).
		Count(&count).Error
	if err != nil {
		logger.Error().Err(err).Str("group_id", groupID).Msg("Admin count failed")
		return 0, apperrors.Internal("Could not inspect group")
	}
	return count, nil
}

// ListMembers returns the group's members. Caller must belong to the group.
func ListMembers(groupID, requesterID string) ([]models.Participant, error) {
	if _, err := getGroup(groupID); err != nil {
		return nil, err
	}
	member, err := IsParticipant(groupID, requesterID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, apperrors.Forbidden("You are not a member of this group")
	}

	var members []models.Participant
	err = database.DB.Where("conversation_id = ?", groupID).
		Order("joined_at ASC").
		Find(&members).Error
	if err != nil {
		logger.Error().Err(err).Str("group_id", groupID).Msg("Member listing failed")
		return nil, apperrors.Internal("Could not list members")
	}
	return members, nil
}

// ListGroupsForUser returns the groups the user belongs to, recent first.
func ListGroupsForUser(userID string) ([]models.Conversation, error) {
	var groups []models.Conversation
	err := database.DB.Preload("Participants").
		Joins("JOIN participants ON participants.conversation_id = conversations.id").
		Where("participants.user_id = ? AND conversations.is_group = ?", userID, true).
		Order("conversations.updated_at DESC").
		Find(&groups).Error
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Group listing failed")
		return nil, apperrors.Internal("Could not list groups")
	}
	return groups, nil
}

// UpdateGroup changes a group's name and/or description. Admin-only.
func UpdateGroup(groupID, requesterID, name, description string) (*models.Conversation, error) {
	conv, err := getGroup(groupID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(groupID, requesterID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if name != "" {
		name = strings.TrimSpace(name)
		if len([]rune(name)) < 2 {
			return nil, apperrors.BadRequest("Group name must be at least 2 characters")
		}
		updates["name"] = name
		conv.Name = name
	}
	if description != "" {
		description = strings.TrimSpace(description)
		updates["description"] = description
		conv.Description = description
	}
	if len(updates) == 0 {
		return conv, nil
	}

	err = database.DB.Model(&models.Conversation{}).Where("id = ?", groupID).Updates(updates).Error
	if err != nil {
		logger.Error().Err(err).Str("group_id", groupID).Msg("Group update failed")
		return nil, apperrors.Internal("Could not update group")
	}
	return conv, nil
}
