package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"toolhub/internal/database"
	"toolhub/internal/domain"
	"toolhub/internal/repository"
	"toolhub/internal/service"
	"toolhub/pkg/logger"
)

type apiEnv struct {
	server   *httptest.Server
	db       *sql.DB
	toolRepo domain.ToolRepository
	userRepo domain.UserRepository
	auth     domain.AuthService
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	log := logger.New("error", io.Discard)
	require.NoError(t, database.NewMigrationService(db, log).RunMigrations())

	toolRepo := repository.NewToolRepository(db, log)
	ratingRepo := repository.NewRatingRepository(db, log)
	bookmarkRepo := repository.NewBookmarkRepository(db, log)
	userRepo := repository.NewUserRepository(db, log)
	auditRepo := repository.NewAuditLogRepository(db, log)

	authService := service.NewAuthService(userRepo, "test-secret", time.Hour, log)
	toolService := service.NewToolService(toolRepo, auditRepo, log)
	ratingService := service.NewRatingService(ratingRepo, toolRepo, auditRepo, log)
	bookmarkService := service.NewBookmarkService(bookmarkRepo, toolRepo, auditRepo, log)
	userService := service.NewUserService(userRepo, auditRepo, log)
	auditService := service.NewAuditLogService(auditRepo, log)

	mux := http.NewServeMux()
	NewAuthHandler(authService, log).RegisterRoutes(mux)
	NewUserHandler(userService, authService, log).RegisterRoutes(mux)
	NewToolHandler(toolService, authService, log).RegisterRoutes(mux)
	NewRatingHandler(ratingService, authService, log).RegisterRoutes(mux)
	NewBookmarkHandler(bookmarkService, authService, log).RegisterRoutes(mux)
	NewAuditLogHandler(auditService, authService, log).RegisterRoutes(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &apiEnv{
		server:   server,
		db:       db,
		toolRepo: toolRepo,
		userRepo: userRepo,
		auth:     authService,
	}
}

func (e *apiEnv) seedTool(t *testing.T, name string) *domain.Tool {
	t.Helper()

	tool := &domain.Tool{Name: name, Category: "test", Active: true}
	require.NoError(t, e.toolRepo.Create(tool))
	return tool
}

func (e *apiEnv) seedUserWithToken(t *testing.T, email, role string) (*domain.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("gizli-parola"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{Username: email, Email: email, PasswordHash: string(hash), Role: role}
	require.NoError(t, e.userRepo.Create(user))

	token, err := e.auth.Authenticate(email, "gizli-parola")
	require.NoError(t, err)

	return user, token
}

func (e *apiEnv) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func TestSubmitRatingOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	tool := env.seedTool(t, "araç")
	user, token := env.seedUserWithToken(t, "uye@test.com", domain.RoleUser)

	resp := env.do(t, http.MethodPost, pathRatings(tool.ID), token, map[string]interface{}{
		"score":   4,
		"comment": "işe yarıyor",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var rating domain.Rating
	decodeBody(t, resp, &rating)
	assert.Equal(t, tool.ID, rating.ToolID)
	assert.Equal(t, user.ID, rating.UserID)
	assert.Equal(t, 4, rating.Score)

	// The stored aggregate is refreshed before the response goes out
	stored, err := env.toolRepo.FindByID(tool.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, stored.AverageRating, 0.0001)
}

func TestSubmitRatingRequiresToken(t *testing.T) {
	env := newAPIEnv(t)
	tool := env.seedTool(t, "araç")

	resp := env.do(t, http.MethodPost, pathRatings(tool.ID), "", map[string]interface{}{"score": 4})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "invalid_token", body["error"])
}

func TestSubmitRatingRejectsBadScore(t *testing.T) {
	env := newAPIEnv(t)
	tool := env.seedTool(t, "araç")
	_, token := env.seedUserWithToken(t, "uye@test.com", domain.RoleUser)

	resp := env.do(t, http.MethodPost, pathRatings(tool.ID), token, map[string]interface{}{"score": 6})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "validation_error", body["error"])
}

func TestSubmitRatingUnknownToolOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	_, token := env.seedUserWithToken(t, "uye@test.com", domain.RoleUser)

	resp := env.do(t, http.MethodPost, "/api/tools/9999/ratings", token, map[string]interface{}{"score": 4})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBookmarkFlowOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	tool := env.seedTool(t, "araç")
	_, token := env.seedUserWithToken(t, "uye@test.com", domain.RoleUser)

	resp := env.do(t, http.MethodPost, pathBookmark(tool.ID), token, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Repeating the add is a 200, not an error
	resp = env.do(t, http.MethodPost, pathBookmark(tool.ID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/bookmarks", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tools []*domain.Tool
	decodeBody(t, resp, &tools)
	require.Len(t, tools, 1)
	assert.Equal(t, tool.ID, tools[0].ID)

	resp = env.do(t, http.MethodGet, pathBookmark(tool.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var check map[string]interface{}
	decodeBody(t, resp, &check)
	assert.Equal(t, true, check["bookmarked"])

	resp = env.do(t, http.MethodDelete, pathBookmark(tool.ID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/bookmarks", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tools = nil
	decodeBody(t, resp, &tools)
	assert.Empty(t, tools)
}

func TestAdminRoutesEnforceRole(t *testing.T) {
	env := newAPIEnv(t)
	_, userToken := env.seedUserWithToken(t, "uye@test.com", domain.RoleUser)
	_, adminToken := env.seedUserWithToken(t, "yonetici@test.com", domain.RoleAdmin)

	payload := map[string]interface{}{"name": "yeni araç", "category": "test"}

	resp := env.do(t, http.MethodPost, "/api/tools", userToken, payload)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/tools", adminToken, payload)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestLoginOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	env.seedUserWithToken(t, "uye@test.com", domain.RoleUser)

	resp := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "uye@test.com",
		"password": "gizli-parola",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body["token"])

	resp = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "uye@test.com",
		"password": "yanlış",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTrendingOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	_, token := env.seedUserWithToken(t, "uye@test.com", domain.RoleUser)

	low := env.seedTool(t, "düşük")
	high := env.seedTool(t, "yüksek")

	resp := env.do(t, http.MethodPost, pathRatings(low.ID), token, map[string]interface{}{"score": 2})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = env.do(t, http.MethodPost, pathRatings(high.ID), token, map[string]interface{}{"score": 5})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/tools/trending?limit=2", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var trending []*domain.TrendingTool
	decodeBody(t, resp, &trending)
	require.Len(t, trending, 2)
	assert.Equal(t, high.ID, trending[0].Tool.ID)
	assert.Equal(t, low.ID, trending[1].Tool.ID)
}

func pathRatings(toolID int64) string {
	return "/api/tools/" + strconv.FormatInt(toolID, 10) + "/ratings"
}

func pathBookmark(toolID int64) string {
	return "/api/tools/" + strconv.FormatInt(toolID, 10) + "/bookmark"
}

func TestAuditLogErrorsUseEnvelope(t *testing.T) {
	env := newAPIEnv(t)
	_, adminToken := env.seedUserWithToken(t, "yonetici@test.com", domain.RoleAdmin)

	resp := env.do(t, http.MethodGet, "/api/audit-logs?page=0", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "validation_error", body["error"])
	assert.NotEmpty(t, body["message"])

	resp = env.do(t, http.MethodGet, "/api/entity-logs?entity_type=payment&entity_id=1", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body = nil
	decodeBody(t, resp, &body)
	assert.Equal(t, "validation_error", body["error"])
}
