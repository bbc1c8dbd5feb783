package services

import (
	"errors"
	"time"

	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/database"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/models"
	apperrors "github.com/MackG7/TP-Final-Integrador-Back-End/pkg/errors"
	"github.com/MackG7/TP-Final-Integrador-Back-End/pkg/logger"
	"github.com/MackG7/TP-Final-Integrador-Back-End/pkg/utils"
	"gorm.io/gorm"
)

// CreateInvite issues a single-use invitation token for the given email.
// Only one unexpired pending invite per (owner, email) is allowed.
func CreateInvite(ownerID, email string) (*models.Invite, error) {
	email = utils.NormalizeEmail(email)
	if !utils.IsValidEmail(email) {
		return nil, apperrors.BadRequest("A valid email is required")
	}

	var pending int64
	err := database.DB.Model(&models.Invite{}).
		Where("owner_id = ? AND invited_email = ? AND used = ? AND expires_at > ?",
			ownerID, email, false, time.Now()).
		Count(&pending).Error
	if err != nil {
		logger.Error().Err(err).Str("owner_id", ownerID).Msg("Pending invite lookup failed")
		return nil, apperrors.Internal("Could not create invite")
	}
	if pending > 0 {
		return nil, apperrors.Conflict("An invite for this email is already pending")
	}

	token, err := utils.GenerateInviteToken()
	if err != nil {
		logger.Error().Err(err).Msg("Invite token generation failed")
		return nil, apperrors.Internal("Could not create invite")
	}

	invite := models.Invite{
		Token:        token,
		OwnerID:      ownerID,
		InvitedEmail: email,
		ExpiresAt:    time.Now().Add(models.InviteTTL),
	}
	if err := database.DB.Create(&invite).Error; err != nil {
		logger.Error().Err(err).Str("owner_id", ownerID).Msg("Invite creation failed")
		return nil, apperrors.Internal("Could not create invite")
	}
	return &invite, nil
}

// ResolveInvite returns a still-redeemable invite for the token. Unknown,
// used and expired tokens are indistinguishable to the caller.
func ResolveInvite(token string) (*models.Invite, error) {
	if token == "" {
		return nil, apperrors.BadRequest("Invite token is required")
	}

	var invite models.Invite
	err := database.DB.Where("token = ?", token).First(&invite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Invite is invalid or expired")
	}
	if err != nil {
		logger.Error().Err(err).Msg("Invite lookup failed")
		return nil, apperrors.Internal("Could not resolve invite")
	}
	if !invite.Redeemable() {
		return nil, apperrors.NotFound("Invite is invalid or expired")
	}
	return &invite, nil
}

// RedeemInvite consumes the invite and links inviter and redeemer as mutual
// contacts. The pending -> used transition is a guarded update, so exactly
// one of two concurrent redemptions can win.
func RedeemInvite(token, redeemerID string) (*models.Invite, error) {
	invite, err := ResolveInvite(token)
	if err != nil {
		return nil, err
	}
	if invite.OwnerID == redeemerID {
		return nil, apperrors.BadRequest("You cannot redeem your own invite")
	}

	res := database.DB.Model(&models.Invite{}).
		Where("token = ? AND used = ?", token, false).
		Updates(map[string]interface{}{"used": true, "used_by_id": redeemerID})
	if res.Error != nil {
		logger.Error().Err(res.Error).Str("invite_id", invite.ID).Msg("Invite redemption failed")
		return nil, apperrors.Internal("Could not redeem invite")
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.Conflict("Invite was already redeemed")
	}

	// Safe to retry: the contact upsert is idempotent
	if err := EstablishMutualContact(invite.OwnerID, redeemerID); err != nil {
		if err := EstablishMutualContact(invite.OwnerID, redeemerID); err != nil {
			logger.Error().Err(err).Str("invite_id", invite.ID).Msg("Contact linking after redemption unconfirmed")
			return nil, apperrors.PartialFailure("Invite redeemed but contact linking is unconfirmed")
		}
	}

	invite.Used = true
	invite.UsedByID = &redeemerID
	return invite, nil
}

// ListInvitesByOwner returns every invite the user has created, newest first.
func ListInvitesByOwner(ownerID string) ([]models.Invite, error) {
	var invites []models.Invite
	err := database.DB.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&invites).Error
	if err != nil {
		logger.Error().Err(err).Str("owner_id", ownerID).Msg("Invite listing failed")
		return nil, apperrors.Internal("Could not list invites")
	}
	return invites, nil
}

// InviteLink builds the shareable registration link for an invite.
func InviteLink(frontendURL string, invite *models.Invite) string {
	return frontendURL + "/register?ref=" + invite.Token
}
