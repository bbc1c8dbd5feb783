package seeds

import (
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/database"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/models"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/services"
	"github.com/MackG7/TP-Final-Integrador-Back-End/pkg/logger"
)

// RunDemo seeds a small demo dataset for local development: three linked
// users, a direct chat with a short exchange, a group and a pending invite.
// It is a no-op when the users table already has rows.
func RunDemo() error {
	var count int64
	if err := database.DB.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info().Msg("Demo seed skipped, database already has users")
		return nil
	}

	users := []models.User{
		{Email: "ana@example.com", DisplayName: "Ana"},
		{Email: "bruno@example.com", DisplayName: "Bruno"},
		{Email: "carla@example.com", DisplayName: "Carla"},
	}
	for i := range users {
		if err := database.DB.Create(&users[i]).Error; err != nil {
			return err
		}
	}
	ana, bruno, carla := users[0], users[1], users[2]

	if err := services.EstablishMutualContact(ana.ID, bruno.ID); err != nil {
		return err
	}
	if err := services.EstablishMutualContact(ana.ID, carla.ID); err != nil {
		return err
	}

	chat, err := services.GetOrCreateDirect(ana.ID, bruno.ID)
	if err != nil {
		return err
	}
	for _, line := range []struct{ sender, content string }{
		{ana.ID, "Hola Bruno, ¿viste la consigna del TP?"},
		{bruno.ID, "Sí, arranco hoy con el backend"},
		{ana.ID, "Dale, te sumo al grupo"},
	} {
		if _, err := services.SendMessage(chat.ID, line.sender, line.content); err != nil {
			return err
		}
	}

	if _, err := services.CreateGroup(ana.ID, "TP Final", "Equipo del trabajo integrador",
		[]string{bruno.ID, carla.ID}); err != nil {
		return err
	}

	if _, err := services.CreateInvite(ana.ID, "dana@example.com"); err != nil {
		return err
	}

	logger.Info().
		Int("users", len(users)).
		Msg("Demo seed complete")
	return nil
}
