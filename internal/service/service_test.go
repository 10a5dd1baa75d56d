package service

import (
	"database/sql"
	"io"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"toolhub/internal/database"
	"toolhub/internal/domain"
	"toolhub/internal/repository"
	"toolhub/pkg/logger"
)

type testEnv struct {
	db           *sql.DB
	toolRepo     domain.ToolRepository
	ratingRepo   domain.RatingRepository
	bookmarkRepo domain.BookmarkRepository
	userRepo     domain.UserRepository
	auditRepo    domain.AuditLogRepository
	logger       logger.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	log := logger.New("error", io.Discard)
	require.NoError(t, database.NewMigrationService(db, log).RunMigrations())

	return &testEnv{
		db:           db,
		toolRepo:     repository.NewToolRepository(db, log),
		ratingRepo:   repository.NewRatingRepository(db, log),
		bookmarkRepo: repository.NewBookmarkRepository(db, log),
		userRepo:     repository.NewUserRepository(db, log),
		auditRepo:    repository.NewAuditLogRepository(db, log),
		logger:       log,
	}
}

func (e *testEnv) seedTool(t *testing.T, name string) *domain.Tool {
	t.Helper()

	tool := &domain.Tool{Name: name, Category: "test", Active: true}
	require.NoError(t, e.toolRepo.Create(tool))
	return tool
}

func (e *testEnv) seedUser(t *testing.T, email string) *domain.User {
	t.Helper()

	user := &domain.User{Username: email, Email: email, PasswordHash: "x", Role: domain.RoleUser}
	require.NoError(t, e.userRepo.Create(user))
	return user
}
