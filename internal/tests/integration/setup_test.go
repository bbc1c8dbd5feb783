package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/config"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/database"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/middleware"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/models"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/routes"
	"github.com/MackG7/TP-Final-Integrador-Back-End/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestEnv wires an in-memory database and the full router stack, the
// same middleware chain and route groups the server binary uses.
func setupTestEnv(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{
		Port:        "8080",
		JWTSecret:   "integration-test-secret",
		FrontendURL: "http://localhost:5173",
	}

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	database.DB = db

	if err := database.DB.AutoMigrate(
		&models.User{},
		&models.Invite{},
		&models.Contact{},
		&models.Conversation{},
		&models.Participant{},
		&models.Message{},
		&models.MessageReceipt{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	for _, table := range []string{
		"message_receipts", "messages", "participants",
		"conversations", "contacts", "invites", "users",
	} {
		database.DB.Exec("DELETE FROM " + table)
	}

	r := gin.New()
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.SecurityHeaders())

	api := r.Group("/api")
	{
		routes.RegisterInviteRoutes(api)
		routes.RegisterContactRoutes(api)
		routes.RegisterChatRoutes(api)
		routes.RegisterGroupRoutes(api)
	}
	return r
}

// seedFlowUser inserts a user and returns it with a valid bearer token.
func seedFlowUser(t *testing.T, email, name string) (models.User, string) {
	t.Helper()
	user := models.User{Email: email, DisplayName: name}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user %s: %v", email, err)
	}
	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		t.Fatalf("Failed to generate token for %s: %v", email, err)
	}
	return user, token
}

func performRequest(r *gin.Engine, method, path string, payload interface{}, token string) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("Failed to decode envelope: %v (body %s)", err, w.Body.String())
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		t.Fatalf("Failed to decode data: %v (body %s)", err, w.Body.String())
	}
}
