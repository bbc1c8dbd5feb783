package handlers

import (
	"net/http"

	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/services"
	"github.com/gin-gonic/gin"
)

// AddContact POST /api/contacts
func AddContact(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		Alias string `json:"alias"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "A valid email is required"})
		return
	}

	contact, err := services.AddContact(callerID(c), req.Email, req.Alias)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, contact)
}

// ListContacts GET /api/contacts
func ListContacts(c *gin.Context) {
	contacts, err := services.ListContacts(callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, contacts)
}

// RenameContact PATCH /api/contacts/:id
func RenameContact(c *gin.Context) {
	var req struct {
		Alias string `json:"alias" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Alias is required"})
		return
	}

	contact, err := services.RenameAlias(callerID(c), c.Param("id"), req.Alias)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, contact)
}

// RemoveContact DELETE /api/contacts/:id
// Soft delete: history keeps its attribution, the messaging gate closes.
func RemoveContact(c *gin.Context) {
	contact, err := services.RemoveContact(callerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, contact)
}
