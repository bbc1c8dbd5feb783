package services

import (
	"errors"
	"strings"

	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/database"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/models"
	apperrors "github.com/MackG7/TP-Final-Integrador-Back-End/pkg/errors"
	"github.com/MackG7/TP-Final-Integrador-Back-End/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AddContact links another user, resolved by email, into the owner's contact
// list. Re-adding a soft-deleted contact reactivates the existing row.
func AddContact(ownerID, contactEmail, alias string) (*models.Contact, error) {
	target, err := FindUserByEmail(contactEmail)
	if err != nil {
		return nil, err
	}
	if target.ID == ownerID {
		return nil, apperrors.BadRequest("You cannot add yourself as a contact")
	}

	alias = strings.TrimSpace(alias)

	var contact models.Contact
	err = database.DB.Where("owner_id = ? AND contact_user_id = ?", ownerID, target.ID).
		First(&contact).Error
	if err == nil {
		return reactivateContact(&contact, alias)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error().Err(err).Str("owner_id", ownerID).Msg("Contact lookup failed")
		return nil, apperrors.Internal("Could not add contact")
	}

	contact = models.Contact{
		OwnerID:       ownerID,
		ContactUserID: target.ID,
		Alias:         alias,
		IsActive:      true,
	}
	if err := database.DB.Create(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Concurrent add of the same pair; reuse the winner
			if err := database.DB.Where("owner_id = ? AND contact_user_id = ?", ownerID, target.ID).
				First(&contact).Error; err != nil {
				logger.Error().Err(err).Str("owner_id", ownerID).Msg("Contact re-read after conflict failed")
				return nil, apperrors.Internal("Could not add contact")
			}
			return reactivateContact(&contact, alias)
		}
		logger.Error().Err(err).Str("owner_id", ownerID).Msg("Contact creation failed")
		return nil, apperrors.Internal("Could not add contact")
	}
	return &contact, nil
}

func reactivateContact(contact *models.Contact, alias string) (*models.Contact, error) {
	updates := map[string]interface{}{"is_active": true}
	if alias != "" {
		updates["alias"] = alias
	}
	if err := database.DB.Model(contact).Updates(updates).Error; err != nil {
		logger.Error().Err(err).Str("contact_id", contact.ID).Msg("Contact reactivation failed")
		return nil, apperrors.Internal("Could not add contact")
	}
	return contact, nil
}

// EstablishMutualContact upserts both directed contact rows for a user pair
// as active. Used by invite redemption; calling it twice is a no-op.
func EstablishMutualContact(userA, userB string) error {
	if userA == userB {
		return apperrors.BadRequest("Cannot link a user to themselves")
	}

	rows := []models.Contact{
		{OwnerID: userA, ContactUserID: userB, IsActive: true},
		{OwnerID: userB, ContactUserID: userA, IsActive: true},
	}
	err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "contact_user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"is_active": true}),
	}).Create(&rows).Error
	if err != nil {
		logger.Error().Err(err).Msg("Mutual contact upsert failed")
		return apperrors.Internal("Could not link contacts")
	}
	return nil
}

// ListContacts returns the owner's active contacts.
func ListContacts(ownerID string) ([]models.Contact, error) {
	var contacts []models.Contact
	err := database.DB.Preload("ContactUser").
		Where("owner_id = ? AND is_active = ?", ownerID, true).
		Order("created_at ASC").
		Find(&contacts).Error
	if err != nil {
		logger.Error().Err(err).Str("owner_id", ownerID).Msg("Contact listing failed")
		return nil, apperrors.Internal("Could not list contacts")
	}
	return contacts, nil
}

// RenameAlias updates the alias of a contact owned by ownerID. Rows owned by
// other users are reported as not found, never as forbidden.
func RenameAlias(ownerID, contactID, alias string) (*models.Contact, error) {
	contact, err := findOwnedContact(ownerID, contactID)
	if err != nil {
		return nil, err
	}

	contact.Alias = strings.TrimSpace(alias)
	if err := database.DB.Model(contact).Update("alias", contact.Alias).Error; err != nil {
		logger.Error().Err(err).Str("contact_id", contactID).Msg("Contact alias update failed")
		return nil, apperrors.Internal("Could not update contact")
	}
	return contact, nil
}

// RemoveContact soft-deletes a contact. Prior conversations are untouched.
func RemoveContact(ownerID, contactID string) (*models.Contact, error) {
	contact, err := findOwnedContact(ownerID, contactID)
	if err != nil {
		return nil, err
	}

	contact.IsActive = false
	if err := database.DB.Model(contact).Update("is_active", false).Error; err != nil {
		logger.Error().Err(err).Str("contact_id", contactID).Msg("Contact removal failed")
		return nil, apperrors.Internal("Could not remove contact")
	}
	return contact, nil
}

func findOwnedContact(ownerID, contactID string) (*models.Contact, error) {
	var contact models.Contact
	err := database.DB.Where("id = ? AND owner_id = ?", contactID, ownerID).First(&contact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Contact not found")
	}
	if err != nil {
		logger.Error().Err(err).Str("contact_id", contactID).Msg("Contact lookup failed")
		return nil, apperrors.Internal("Could not load contact")
	}
	return &contact, nil
}

// HasActiveContact reports whether owner has other as an active contact.
// This outbound row is the sole gate for opening a direct chat.
func HasActiveContact(ownerID, otherID string) (bool, error) {
	var count int64
	err := database.DB.Model(&models.Contact{}).
		Where("owner_id = ? AND contact_user_id = ? AND is_active = ?", ownerID, otherID, true).
		Count(&count).Error
	if err != nil {
		logger.Error().Err(err).Str("owner_id", ownerID).Msg("Contact gate check failed")
		return false, apperrors.Internal("Could not verify contact")
	}
	return count > 0, nil
}
