package handlers

import (
	"net/http"

	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/services"
	"github.com/gin-gonic/gin"
)

// OpenDirectChat POST /api/chats
// Resolves or creates the unique direct conversation with a contact.
func OpenDirectChat(c *gin.Context) {
	var req struct {
		ContactUserID string `json:"contactUserId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "contactUserId is required"})
		return
	}

	conv, err := services.GetOrCreateDirect(callerID(c), req.ContactUserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, conv)
}

// ListConversations GET /api/chats
// Direct chats and groups together, most recent activity first.
func ListConversations(c *gin.Context) {
	summaries, err := services.ListForUser(callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, summaries)
}

// DeleteConversation DELETE /api/chats/:id
func DeleteConversation(c *gin.Context) {
	if err := services.DeleteConversation(c.Param("id"), callerID(c)); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Conversation deleted")
}
