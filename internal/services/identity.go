package services

import (
	"errors"

	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/database"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/models"
	apperrors "github.com/MackG7/TP-Final-Integrador-Back-End/pkg/errors"
	"github.com/MackG7/TP-Final-Integrador-Back-End/pkg/logger"
	"github.com/MackG7/TP-Final-Integrador-Back-End/pkg/utils"
	"gorm.io/gorm"
)

// Identity lookups against the read-side user projection. Account creation
// and authentication belong to the external user-management service.

func FindUserByID(id string) (*models.User, error) {
	var user models.User
	err := database.DB.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("User not found")
	}
	if err != nil {
		logger.Error().Err(err).Str("user_id", id).Msg("Identity lookup failed")
		return nil, apperrors.Internal("Could not look up user")
	}
	return &user, nil
}

// FindUserByEmail resolves a user by email, case-insensitively.
func FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := database.DB.Where("LOWER(email) = ?", utils.NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("User not found")
	}
	if err != nil {
		logger.Error().Err(err).Msg("Identity lookup by email failed")
		return nil, apperrors.Internal("Could not look up user")
	}
	return &user, nil
}
