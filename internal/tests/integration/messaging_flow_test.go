package integration

import (
	"net/http"
	"testing"

	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/models"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/services"
	"github.com/stretchr/testify/assert"
)

// The full onboarding path: invite link, redemption, contact link, direct
// chat, message exchange and read receipts, all through the HTTP surface.
func TestMessagingFlow_InviteToReadReceipt(t *testing.T) {
	r := setupTestEnv(t)

	ana, anaToken := seedFlowUser(t, "ana@example.com", "Ana")
	bruno, brunoToken := seedFlowUser(t, "bruno@example.com", "Bruno")

	// Ana invites Bruno's email
	w := performRequest(r, "POST", "/api/invites", map[string]string{"email": bruno.Email}, anaToken)
	assert.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Invite     models.Invite `json:"invite"`
		InviteLink string        `json:"inviteLink"`
	}
	decodeBody(t, w, &created)
	assert.NotEmpty(t, created.Invite.Token)
	assert.Contains(t, created.InviteLink, created.Invite.Token)

	// The registration page can validate the link without credentials
	w = performRequest(r, "GET", "/api/invites/"+created.Invite.Token, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	// Bruno redeems; both directions become contacts
	w = performRequest(r, "POST", "/api/invites/"+created.Invite.Token+"/redeem", nil, brunoToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(r, "GET", "/api/contacts", nil, brunoToken)
	assert.Equal(t, http.StatusOK, w.Code)
	var brunoContacts []models.Contact
	decodeBody(t, w, &brunoContacts)
	if assert.Len(t, brunoContacts, 1) {
		assert.Equal(t, ana.ID, brunoContacts[0].ContactUserID)
	}

	// Ana opens the direct chat and says hi
	w = performRequest(r, "POST", "/api/chats", map[string]string{"contactUserId": bruno.ID}, anaToken)
	assert.Equal(t, http.StatusOK, w.Code)
	var chat models.Conversation
	decodeBody(t, w, &chat)

	w = performRequest(r, "POST", "/api/chats/"+chat.ID+"/messages",
		map[string]string{"content": "Hola Bruno"}, anaToken)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Bruno sees one conversation with one unread message
	w = performRequest(r, "GET", "/api/chats", nil, brunoToken)
	assert.Equal(t, http.StatusOK, w.Code)
	var summaries []services.ConversationSummary
	decodeBody(t, w, &summaries)
	if assert.Len(t, summaries, 1) {
		assert.Equal(t, chat.ID, summaries[0].ID)
		assert.Equal(t, "direct", summaries[0].Type)
		assert.Equal(t, int64(1), summaries[0].UnreadCount)
	}

	w = performRequest(r, "GET", "/api/chats/"+chat.ID+"/messages", nil, brunoToken)
	assert.Equal(t, http.StatusOK, w.Code)
	var page services.MessagePage
	decodeBody(t, w, &page)
	if assert.Len(t, page.Messages, 1) {
		assert.Equal(t, "Hola Bruno", page.Messages[0].Content)
	}

	// Bruno reads; the unread count drops to zero
	w = performRequest(r, "POST", "/api/chats/"+chat.ID+"/read", nil, brunoToken)
	assert.Equal(t, http.StatusOK, w.Code)
	var read struct {
		MarkedRead int64 `json:"markedRead"`
	}
	decodeBody(t, w, &read)
	assert.Equal(t, int64(1), read.MarkedRead)

	w = performRequest(r, "GET", "/api/chats", nil, brunoToken)
	decodeBody(t, w, &summaries)
	if assert.Len(t, summaries, 1) {
		assert.Equal(t, int64(0), summaries[0].UnreadCount)
	}

	// The link is single-use
	w = performRequest(r, "POST", "/api/invites/"+created.Invite.Token+"/redeem", nil, brunoToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMessagingFlow_UnauthenticatedRequestsRejected(t *testing.T) {
	r := setupTestEnv(t)

	for _, route := range []struct{ method, path string }{
		{"POST", "/api/invites"},
		{"GET", "/api/contacts"},
		{"GET", "/api/chats"},
		{"POST", "/api/groups"},
	} {
		w := performRequest(r, route.method, route.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s should require auth", route.method, route.path)
	}
}
