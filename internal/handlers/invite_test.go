package handlers

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/database"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCreateInvite_Success(t *testing.T) {
	SetupTestDB()
	createTestUser(t, "inviter", "inviter@example.com")

	c, w := testContext("POST", "/api/invites", `{"email":"bob@example.com"}`, "inviter")
	CreateInvite(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var data struct {
		Invite     models.Invite `json:"invite"`
		InviteLink string        `json:"inviteLink"`
	}
	decodeData(t, w, &data)

	assert.Len(t, data.Invite.Token, 64)
	assert.Equal(t, "inviter", data.Invite.OwnerID)
	assert.Equal(t, "bob@example.com", data.Invite.InvitedEmail)
	assert.False(t, data.Invite.Used)
	assert.True(t, strings.HasSuffix(data.InviteLink, "/register?ref="+data.Invite.Token))
	assert.True(t, data.Invite.ExpiresAt.After(time.Now().Add(23*time.Hour)))
}

func TestCreateInvite_InvalidEmail(t *testing.T) {
	SetupTestDB()
	createTestUser(t, "inviter", "inviter@example.com")

	c, w := testContext("POST", "/api/invites", `{"email":"not-an-email"}`, "inviter")
	CreateInvite(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateInvite_DuplicatePendingConflict(t *testing.T) {
	SetupTestDB()
	createTestUser(t, "inviter", "inviter@example.com")

	c, w := testContext("POST", "/api/invites", `{"email":"bob@example.com"}`, "inviter")
	CreateInvite(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	c, w = testContext("POST", "/api/invites", `{"email":"bob@example.com"}`, "inviter")
	CreateInvite(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestResolveInvite_CollapsesAllInvalidStates(t *testing.T) {
	SetupTestDB()
	createTestUser(t, "inviter", "inviter@example.com")

	usedBy := "someone"
	database.DB.Create(&models.Invite{
		Token: "used-token", OwnerID: "inviter", InvitedEmail: "a@example.com",
		ExpiresAt: time.Now().Add(time.Hour), Used: true, UsedByID: &usedBy,
	})
	database.DB.Create(&models.Invite{
		Token: "expired-token", OwnerID: "inviter", InvitedEmail: "b@example.com",
		ExpiresAt: time.Now().Add(-time.Hour),
	})

	for _, token := range []string{"missing-token", "used-token", "expired-token"} {
		c, w := testContext("GET", "/api/invites/"+token, "", "")
		c.Params = gin.Params{{Key: "token", Value: token}}
		ResolveInvite(c)

		assert.Equal(t, http.StatusNotFound, w.Code, "token %s should look invalid", token)
		env := decodeEnvelope(t, w)
		assert.Equal(t, "Invite is invalid or expired", env.Message)
	}
}

func TestRedeemInvite_LinksBothDirections(t *testing.T) {
	SetupTestDB()
	createTestUser(t, "inviter", "inviter@example.com")
	createTestUser(t, "bob", "bob@example.com")

	database.DB.Create(&models.Invite{
		Token: "tok-1", OwnerID: "inviter", InvitedEmail: "bob@example.com",
		ExpiresAt: time.Now().Add(time.Hour),
	})

	c, w := testContext("POST", "/api/invites/tok-1/redeem", "", "bob")
	c.Params = gin.Params{{Key: "token", Value: "tok-1"}}
	RedeemInvite(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var invite models.Invite
	database.DB.Where("token = ?", "tok-1").First(&invite)
	assert.True(t, invite.Used)
	if assert.NotNil(t, invite.UsedByID) {
		assert.Equal(t, "bob", *invite.UsedByID)
	}

	var contacts []models.Contact
	database.DB.Order("owner_id ASC").Find(&contacts)
	if assert.Len(t, contacts, 2) {
		assert.Equal(t, "bob", contacts[0].OwnerID)
		assert.Equal(t, "inviter", contacts[0].ContactUserID)
		assert.True(t, contacts[0].IsActive)
		assert.Equal(t, "inviter", contacts[1].OwnerID)
		assert.Equal(t, "bob", contacts[1].ContactUserID)
		assert.True(t, contacts[1].IsActive)
	}
}

func TestRedeemInvite_SecondRedemptionFailsWithoutDuplicates(t *testing.T) {
	SetupTestDB()
	createTestUser(t, "inviter", "inviter@example.com")
	createTestUser(t, "bob", "bob@example.com")
	createTestUser(t, "eve", "eve@example.com")

	database.DB.Create(&models.Invite{
		Token: "tok-2", OwnerID: "inviter", InvitedEmail: "bob@example.com",
		ExpiresAt: time.Now().Add(time.Hour),
	})

	c, w := testContext("POST", "/api/invites/tok-2/redeem", "", "bob")
	c.Params = gin.Params{{Key: "token", Value: "tok-2"}}
	RedeemInvite(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = testContext("POST", "/api/invites/tok-2/redeem", "", "eve")
	c.Params = gin.Params{{Key: "token", Value: "tok-2"}}
	RedeemInvite(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	database.DB.Model(&models.Contact{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestRedeemInvite_OwnInviteRejected(t *testing.T) {
	SetupTestDB()
	createTestUser(t, "inviter", "inviter@example.com")

	database.DB.Create(&models.Invite{
		Token: "tok-3", OwnerID: "inviter", InvitedEmail: "other@example.com",
		ExpiresAt: time.Now().Add(time.Hour),
	})

	c, w := testContext("POST", "/api/invites/tok-3/redeem", "", "inviter")
	c.Params = gin.Params{{Key: "token", Value: "tok-3"}}
	RedeemInvite(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListMyInvites_NewestFirst(t *testing.T) {
	SetupTestDB()
	createTestUser(t, "inviter", "inviter@example.com")

	old := models.Invite{Token: "tok-old", OwnerID: "inviter", InvitedEmail: "a@example.com", ExpiresAt: time.Now().Add(time.Hour)}
	database.DB.Create(&old)
	database.DB.Model(&old).Update("created_at", time.Now().Add(-2*time.Hour))
	database.DB.Create(&models.Invite{Token: "tok-new", OwnerID: "inviter", InvitedEmail: "b@example.com", ExpiresAt: time.Now().Add(time.Hour)})
	database.DB.Create(&models.Invite{Token: "tok-other", OwnerID: "someone-else", InvitedEmail: "c@example.com", ExpiresAt: time.Now().Add(time.Hour)})

	c, w := testContext("GET", "/api/invites", "", "inviter")
	ListMyInvites(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var invites []models.Invite
	decodeData(t, w, &invites)
	if assert.Len(t, invites, 2) {
		assert.Equal(t, "tok-new", invites[0].Token)
		assert.Equal(t, "tok-old", invites[1].Token)
	}
}
