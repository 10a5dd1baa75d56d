package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolhub/internal/domain"
)

func TestRatingCommentRoundTrip(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger()
	toolRepo := NewToolRepository(db, log)
	ratingRepo := NewRatingRepository(db, log)
	userRepo := NewUserRepository(db, log)

	tool := seedTool(t, toolRepo, "araç")
	user := seedUser(t, userRepo, "puanci@test.com")

	rating := &domain.Rating{
		ToolID:  tool.ID,
		UserID:  user.ID,
		Score:   4,
		Comment: "gayet iyi çalışıyor",
	}
	require.NoError(t, ratingRepo.Create(rating))
	assert.NotZero(t, rating.ID)

	ratings, err := ratingRepo.FindByToolID(tool.ID)
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.Equal(t, "gayet iyi çalışıyor", ratings[0].Comment)
	assert.Equal(t, 4, ratings[0].Score)
	assert.Equal(t, user.ID, ratings[0].UserID)
}

func TestFindByToolIDNewestFirst(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger()
	toolRepo := NewToolRepository(db, log)
	ratingRepo := NewRatingRepository(db, log)
	userRepo := NewUserRepository(db, log)

	tool := seedTool(t, toolRepo, "araç")
	user := seedUser(t, userRepo, "puanci@test.com")

	for _, score := range []int{1, 2, 3} {
		require.NoError(t, ratingRepo.Create(&domain.Rating{ToolID: tool.ID, UserID: user.ID, Score: score}))
	}

	ratings, err := ratingRepo.FindByToolID(tool.ID)
	require.NoError(t, err)
	require.Len(t, ratings, 3)
	assert.Equal(t, 3, ratings[0].Score)
	assert.Equal(t, 2, ratings[1].Score)
	assert.Equal(t, 1, ratings[2].Score)
}

func TestFindByToolIDEmpty(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger()
	toolRepo := NewToolRepository(db, log)
	ratingRepo := NewRatingRepository(db, log)

	tool := seedTool(t, toolRepo, "araç")

	ratings, err := ratingRepo.FindByToolID(tool.ID)
	require.NoError(t, err)
	assert.NotNil(t, ratings)
	assert.Empty(t, ratings)
}

func TestAverageAndCountForTool(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger()
	toolRepo := NewToolRepository(db, log)
	ratingRepo := NewRatingRepository(db, log)
	userRepo := NewUserRepository(db, log)

	tool := seedTool(t, toolRepo, "araç")
	user := seedUser(t, userRepo, "puanci@test.com")

	average, err := ratingRepo.AverageForTool(tool.ID)
	require.NoError(t, err)
	assert.Zero(t, average)

	for _, score := range []int{2, 5} {
		require.NoError(t, ratingRepo.Create(&domain.Rating{ToolID: tool.ID, UserID: user.ID, Score: score}))
	}

	average, err = ratingRepo.AverageForTool(tool.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, average, 0.0001)

	count, err := ratingRepo.CountForTool(tool.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestUserRepositoryEmailUnique(t *testing.T) {
	db := newTestDB(t)
	userRepo := NewUserRepository(db, newTestLogger())

	seedUser(t, userRepo, "tek@test.com")

	err := userRepo.Create(&domain.User{
		Username:     "ikinci",
		Email:        "tek@test.com",
		PasswordHash: "x",
		Role:         domain.RoleUser,
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}
