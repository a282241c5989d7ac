package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/kmazurek/ticket-system-api/internal/auth"
	"github.com/kmazurek/ticket-system-api/internal/constants"
	"github.com/kmazurek/ticket-system-api/internal/database"
	"github.com/kmazurek/ticket-system-api/internal/models"
	"github.com/kmazurek/ticket-system-api/internal/repository"
	"github.com/kmazurek/ticket-system-api/internal/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthTestEnv(t *testing.T) (*gorm.DB, *AuthHandler) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Ticket{}, &models.Comment{}))
	database.SetDB(db)

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		sqlDB.Close()
	})

	tokens := auth.NewTokenManager("test-secret", "ticket-system-api-test")
	handler := NewAuthHandler(services.NewAuthService(repository.NewUserRepository(db), tokens))

	gin.SetMode(gin.TestMode)
	return db, handler
}

func createAuthTestUser(t *testing.T, db *gorm.DB, email, password string) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Email:        email,
		Name:         "User",
		Surname:      "Testowsky",
		PasswordHash: string(hashed),
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newSessionRouter(handler gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	r.POST("/api/users/token", handler)
	return r
}

func TestCreateToken(t *testing.T) {
	db, handler := setupAuthTestEnv(t)
	user := createAuthTestUser(t, db, "user@example.com", "password123")

	r := newSessionRouter(handler.CreateToken)

	body, _ := json.Marshal(map[string]string{
		"email":    "user@example.com",
		"password": "password123",
	})
	req := httptest.NewRequest("POST", "/api/users/token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response["token"])

	userPayload := response["user"].(map[string]interface{})
	require.Equal(t, float64(user.ID), userPayload["id"])
	require.Equal(t, "user@example.com", userPayload["email"])

	// A session cookie is issued alongside the token
	require.NotEmpty(t, w.Result().Cookies())

	// The issued token resolves back to the user
	tokens := auth.NewTokenManager("test-secret", "ticket-system-api-test")
	claims, err := tokens.ValidateToken(response["token"].(string))
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
}

func TestCreateToken_WrongPassword(t *testing.T) {
	db, handler := setupAuthTestEnv(t)
	createAuthTestUser(t, db, "user@example.com", "password123")

	r := newSessionRouter(handler.CreateToken)

	body, _ := json.Marshal(map[string]string{
		"email":    "user@example.com",
		"password": "not-the-password",
	})
	req := httptest.NewRequest("POST", "/api/users/token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateToken_UnknownEmail(t *testing.T) {
	_, handler := setupAuthTestEnv(t)

	r := newSessionRouter(handler.CreateToken)

	body, _ := json.Marshal(map[string]string{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	req := httptest.NewRequest("POST", "/api/users/token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateToken_InactiveUser(t *testing.T) {
	db, handler := setupAuthTestEnv(t)
	user := createAuthTestUser(t, db, "user@example.com", "password123")
	db.Model(user).Update("is_active", false)

	r := newSessionRouter(handler.CreateToken)

	body, _ := json.Marshal(map[string]string{
		"email":    "user@example.com",
		"password": "password123",
	})
	req := httptest.NewRequest("POST", "/api/users/token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

// Login accepts any casing in the domain part of the address.
func TestCreateToken_EmailDomainCaseInsensitive(t *testing.T) {
	db, handler := setupAuthTestEnv(t)
	createAuthTestUser(t, db, "user@example.com", "password123")

	r := newSessionRouter(handler.CreateToken)

	body, _ := json.Marshal(map[string]string{
		"email":    "user@EXAMPLE.com",
		"password": "password123",
	})
	req := httptest.NewRequest("POST", "/api/users/token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestGetCurrentUser(t *testing.T) {
	db, handler := setupAuthTestEnv(t)
	user := createAuthTestUser(t, db, "user@example.com", "password123")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/users/me", nil)
	c.Set(constants.ContextKeyUserID, user.ID)

	handler.GetCurrentUser(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "user@example.com", response["email"])
	require.NotContains(t, response, "password_hash")
}

func TestUpdateCurrentUser(t *testing.T) {
	db, handler := setupAuthTestEnv(t)
	user := createAuthTestUser(t, db, "user@example.com", "password123")

	body, _ := json.Marshal(map[string]string{
		"name":  "Renamed",
		"email": "renamed@Example.COM",
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("PATCH", "/api/users/me", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(constants.ContextKeyUserID, user.ID)

	handler.UpdateCurrentUser(c)

	require.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	require.Equal(t, "Renamed", updated.Name)
	require.Equal(t, "renamed@example.com", updated.Email)
	require.Equal(t, "Testowsky", updated.Surname)
}

func TestUpdateCurrentUser_ShortPassword(t *testing.T) {
	db, handler := setupAuthTestEnv(t)
	user := createAuthTestUser(t, db, "user@example.com", "password123")

	body, _ := json.Marshal(map[string]string{"password": "abc"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("PATCH", "/api/users/me", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(constants.ContextKeyUserID, user.ID)

	handler.UpdateCurrentUser(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogout(t *testing.T) {
	_, handler := setupAuthTestEnv(t)

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	r.POST("/api/users/logout", handler.Logout)

	req := httptest.NewRequest("POST", "/api/users/logout", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}
