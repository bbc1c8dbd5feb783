package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/config"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/database"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupTestDB initializes an in-memory SQLite DB for testing and wipes any
// rows left over from earlier tests in the package.
func SetupTestDB() {
	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{
		Port:        "8080",
		JWTSecret:   "test-secret",
		FrontendURL: "http://localhost:5173",
	}

	db, _ := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	database.DB = db
	database.DB.AutoMigrate(
		&models.User{},
		&models.Invite{},
		&models.Contact{},
		&models.Conversation{},
		&models.Participant{},
		&models.Message{},
		&models.MessageReceipt{},
	)

	for _, table := range []string{
		"message_receipts", "messages", "participants",
		"conversations", "contacts", "invites", "users",
	} {
		database.DB.Exec("DELETE FROM " + table)
	}
}

func createTestUser(t *testing.T, id, email string) models.User {
	t.Helper()
	user := models.User{ID: id, Email: email, DisplayName: id}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user %s: %v", id, err)
	}
	return user
}

// testContext builds a gin context with an authenticated caller, mirroring
// what AuthMiddleware leaves behind.
func testContext(method, target, body, userID string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = bytes.NewBufferString("")
	}
	c.Request, _ = http.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	if userID != "" {
		c.Set("userId", userID)
	}
	return c, w
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response envelope: %v (body %s)", err, w.Body.String())
	}
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	env := decodeEnvelope(t, w)
	if err := json.Unmarshal(env.Data, dest); err != nil {
		t.Fatalf("failed to decode response data: %v (body %s)", err, w.Body.String())
	}
}
