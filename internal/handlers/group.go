package handlers

import (
	"net/http"

	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/services"
	"github.com/gin-gonic/gin"
)

// CreateGroup POST /api/groups
func CreateGroup(c *gin.Context) {
	var req struct {
		Name        string   `json:"name" binding:"required"`
		Description string   `json:"description"`
		MemberIDs   []string `json:"memberIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Group name is required"})
		return
	}

	group, err := services.CreateGroup(callerID(c), req.Name, req.Description, req.MemberIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, group)
}

// ListMyGroups GET /api/groups
func ListMyGroups(c *gin.Context) {
	groups, err := services.ListGroupsForUser(callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, groups)
}

// UpdateGroup PATCH /api/groups/:id
func UpdateGroup(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	group, err := services.UpdateGroup(c.Param("id"), callerID(c), req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, group)
}

// DeleteGroup DELETE /api/groups/:id
// Groups are deletable only by their creator.
func DeleteGroup(c *gin.Context) {
	if err := services.DeleteConversation(c.Param("id"), callerID(c)); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Group deleted")
}

// ListMembers GET /api/groups/:id/members
func ListMembers(c *gin.Context) {
	members, err := services.ListMembers(c.Param("id"), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, members)
}

// AddMember POST /api/groups/:id/members
func AddMember(c *gin.Context) {
	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "userId is required"})
		return
	}

	member, err := services.AddMember(c.Param("id"), req.UserID, callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, member)
}

// RemoveMember DELETE /api/groups/:id/members/:userId
// Admins can remove anyone; members can leave on their own.
func RemoveMember(c *gin.Context) {
	err := services.RemoveMember(c.Param("id"), c.Param("userId"), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Member removed")
}

// SetMemberRole PATCH /api/groups/:id/members/:userId
func SetMemberRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Role is required"})
		return
	}

	member, err := services.SetRole(c.Param("id"), c.Param("userId"), req.Role, callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, member)
}
