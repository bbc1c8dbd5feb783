package handlers

import (
	"net/http"
	"strconv"

	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/services"
	"github.com/gin-gonic/gin"
)

// SendMessage POST /api/chats/:id/messages
func SendMessage(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Message content is required"})
		return
	}

	msg, err := services.SendMessage(c.Param("id"), callerID(c), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, msg)
}

// ListMessages GET /api/chats/:id/messages?page=&limit=
func ListMessages(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultPageSize)))

	result, err := services.ListMessages(c.Param("id"), callerID(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

// EditMessage PATCH /api/messages/:id
func EditMessage(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Message content is required"})
		return
	}

	msg, err := services.EditMessage(c.Param("id"), callerID(c), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, msg)
}

// DeleteMessage DELETE /api/messages/:id
// Replaces the content with a tombstone; the row keeps its place.
func DeleteMessage(c *gin.Context) {
	msg, err := services.DeleteMessage(c.Param("id"), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, msg)
}

// MarkConversationRead POST /api/chats/:id/read
func MarkConversationRead(c *gin.Context) {
	marked, err := services.MarkConversationRead(c.Param("id"), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"markedRead": marked})
}
