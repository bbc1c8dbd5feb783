package handlers

import (
	"net/http"

	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/config"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/services"
	"github.com/gin-gonic/gin"
)

// CreateInvite POST /api/invites
// Issues an invite link for an email. Delivery happens out of band (mailer);
// a failed delivery never invalidates the invite, the link stays shareable.
func CreateInvite(c *gin.Context) {
	ownerID := callerID(c)

	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email is required"})
		return
	}

	invite, err := services.CreateInvite(ownerID, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, gin.H{
		"invite":     invite,
		"inviteLink": services.InviteLink(config.AppConfig.FrontendURL, invite),
	})
}

// ListMyInvites GET /api/invites
func ListMyInvites(c *gin.Context) {
	invites, err := services.ListInvitesByOwner(callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, invites)
}

// ResolveInvite GET /api/invites/:token
// Public: the registration page uses it to validate a link before sign-up.
func ResolveInvite(c *gin.Context) {
	invite, err := services.ResolveInvite(c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, invite)
}

// RedeemInvite POST /api/invites/:token/redeem
// Consumes the invite and links both users as contacts.
func RedeemInvite(c *gin.Context) {
	invite, err := services.RedeemInvite(c.Param("token"), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, invite)
}
