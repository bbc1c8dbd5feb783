package handlers

import (
	"errors"
	"net/http"

	apperrors "github.com/MackG7/TP-Final-Integrador-Back-End/pkg/errors"
	"github.com/MackG7/TP-Final-Integrador-Back-End/pkg/logger"
	"github.com/gin-gonic/gin"
)

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": true, "message": message})
}

func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, gin.H{"success": false, "message": appErr.Message})
		return
	}

	logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled handler error")
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
}

func callerID(c *gin.Context) string {
	return c.MustGet("userId").(string)
}
