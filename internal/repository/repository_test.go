package repository

import (
	"database/sql"
	"io"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"toolhub/internal/database"
	"toolhub/internal/domain"
	"toolhub/pkg/logger"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// A single connection keeps every query on the same in-memory database.
	db.SetMaxOpenConns(1)

	log := logger.New("error", io.Discard)
	require.NoError(t, database.NewMigrationService(db, log).RunMigrations())

	return db
}

func newTestLogger() logger.Logger {
	return logger.New("error", io.Discard)
}

func seedTool(t *testing.T, repo domain.ToolRepository, name string) *domain.Tool {
	t.Helper()

	tool := &domain.Tool{
		Name:     name,
		Category: "test",
		Active:   true,
	}
	require.NoError(t, repo.Create(tool))
	return tool
}

func seedUser(t *testing.T, repo domain.UserRepository, email string) *domain.User {
	t.Helper()

	user := &domain.User{
		Username:     email,
		Email:        email,
		PasswordHash: "x",
		Role:         domain.RoleUser,
	}
	require.NoError(t, repo.Create(user))
	return user
}
