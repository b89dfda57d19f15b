package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthMiddleware(t *testing.T) (*gin.Engine, *gorm.DB, *services.TokenService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	tokens := services.NewTokenService("test-secret", time.Hour)
	auth := services.NewAuthService(repository.NewUserRepository(db))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/probe", RequireAuth(tokens, auth), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		role, _ := GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})

	return r, db, tokens
}

func probe(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_MissingOrMalformedHeader(t *testing.T) {
	r, _, _ := setupAuthMiddleware(t)

	require.Equal(t, http.StatusUnauthorized, probe(r, "").Code)
	require.Equal(t, http.StatusUnauthorized, probe(r, "Bearer").Code)
	require.Equal(t, http.StatusUnauthorized, probe(r, "Bearer ").Code)
	require.Equal(t, http.StatusUnauthorized, probe(r, "Basic dXNlcjpwYXNz").Code)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	r, _, _ := setupAuthMiddleware(t)

	require.Equal(t, http.StatusUnauthorized, probe(r, "Bearer not-a-token").Code)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	r, db, _ := setupAuthMiddleware(t)

	user := &models.User{Username: "alice", PasswordHash: "hash", Role: models.RoleUser}
	require.NoError(t, db.Create(user).Error)

	expired := services.NewTokenService("test-secret", -time.Minute)
	token, err := expired.Issue(user.ID)
	require.NoError(t, err)

	require.Equal(t, http.StatusUnauthorized, probe(r, "Bearer "+token).Code)
}

func TestRequireAuth_BindsIdentity(t *testing.T) {
	r, db, tokens := setupAuthMiddleware(t)

	user := &models.User{Username: "alice", PasswordHash: "hash", Role: models.RoleAdmin}
	require.NoError(t, db.Create(user).Error)

	token, err := tokens.Issue(user.ID)
	require.NoError(t, err)

	w := probe(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"user_id": 1, "role": "admin"}`, w.Body.String())
}

func TestRequireAuth_StoreFailure(t *testing.T) {
	r, db, tokens := setupAuthMiddleware(t)

	user := &models.User{Username: "alice", PasswordHash: "hash", Role: models.RoleUser}
	require.NoError(t, db.Create(user).Error)

	token, err := tokens.Issue(user.ID)
	require.NoError(t, err)

	// A broken store is a server error, not a failed authentication
	require.NoError(t, db.Migrator().DropTable(&models.User{}))

	require.Equal(t, http.StatusInternalServerError, probe(r, "Bearer "+token).Code)
}

func TestRequireAuth_DeletedUser(t *testing.T) {
	r, db, tokens := setupAuthMiddleware(t)

	user := &models.User{Username: "alice", PasswordHash: "hash", Role: models.RoleUser}
	require.NoError(t, db.Create(user).Error)

	token, err := tokens.Issue(user.ID)
	require.NoError(t, err)

	require.NoError(t, db.Delete(&models.User{}, user.ID).Error)

	require.Equal(t, http.StatusUnauthorized, probe(r, "Bearer "+token).Code)
}
