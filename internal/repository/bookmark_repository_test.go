package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolhub/internal/domain"
)

func TestBookmarkDuplicateCollapses(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger()
	toolRepo := NewToolRepository(db, log)
	userRepo := NewUserRepository(db, log)
	bookmarkRepo := NewBookmarkRepository(db, log)

	tool := seedTool(t, toolRepo, "araç")
	user := seedUser(t, userRepo, "okur@test.com")

	created, err := bookmarkRepo.Create(&domain.Bookmark{UserID: user.ID, ToolID: tool.ID})
	require.NoError(t, err)
	assert.True(t, created)

	// Duplicate insert is absorbed by the unique constraint, not an error
	created, err = bookmarkRepo.Create(&domain.Bookmark{UserID: user.ID, ToolID: tool.ID})
	require.NoError(t, err)
	assert.False(t, created)

	var count int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM bookmarks WHERE user_id = $1 AND tool_id = $2`,
		user.ID, tool.ID,
	).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestBookmarkDeleteReportsPresence(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger()
	toolRepo := NewToolRepository(db, log)
	userRepo := NewUserRepository(db, log)
	bookmarkRepo := NewBookmarkRepository(db, log)

	tool := seedTool(t, toolRepo, "araç")
	user := seedUser(t, userRepo, "okur@test.com")

	removed, err := bookmarkRepo.Delete(user.ID, tool.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = bookmarkRepo.Create(&domain.Bookmark{UserID: user.ID, ToolID: tool.ID})
	require.NoError(t, err)

	removed, err = bookmarkRepo.Delete(user.ID, tool.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	exists, err := bookmarkRepo.Exists(user.ID, tool.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBookmarkScopedToUser(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger()
	toolRepo := NewToolRepository(db, log)
	userRepo := NewUserRepository(db, log)
	bookmarkRepo := NewBookmarkRepository(db, log)

	tool := seedTool(t, toolRepo, "araç")
	alice := seedUser(t, userRepo, "alice@test.com")
	bob := seedUser(t, userRepo, "bob@test.com")

	created, err := bookmarkRepo.Create(&domain.Bookmark{UserID: alice.ID, ToolID: tool.ID})
	require.NoError(t, err)
	assert.True(t, created)

	// Same tool for a different user is a fresh row
	created, err = bookmarkRepo.Create(&domain.Bookmark{UserID: bob.ID, ToolID: tool.ID})
	require.NoError(t, err)
	assert.True(t, created)

	tools, err := bookmarkRepo.FindToolsByUserID(alice.ID)
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, tool.ID, tools[0].ID)
}

func TestFindToolsByUserIDNewestFirst(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger()
	toolRepo := NewToolRepository(db, log)
	userRepo := NewUserRepository(db, log)
	bookmarkRepo := NewBookmarkRepository(db, log)

	user := seedUser(t, userRepo, "okur@test.com")
	first := seedTool(t, toolRepo, "ilk")
	second := seedTool(t, toolRepo, "ikinci")

	_, err := bookmarkRepo.Create(&domain.Bookmark{UserID: user.ID, ToolID: first.ID})
	require.NoError(t, err)
	_, err = bookmarkRepo.Create(&domain.Bookmark{UserID: user.ID, ToolID: second.ID})
	require.NoError(t, err)

	tools, err := bookmarkRepo.FindToolsByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, tools, 2)
	assert.Equal(t, second.ID, tools[0].ID)
	assert.Equal(t, first.ID, tools[1].ID)
}
