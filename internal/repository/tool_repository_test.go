package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolhub/internal/domain"
)

func TestRecomputeAverageRating(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger()
	toolRepo := NewToolRepository(db, log)
	ratingRepo := NewRatingRepository(db, log)
	userRepo := NewUserRepository(db, log)

	tool := seedTool(t, toolRepo, "örnek araç")
	user := seedUser(t, userRepo, "puanci@test.com")

	for _, score := range []int{5, 3, 4} {
		require.NoError(t, ratingRepo.Create(&domain.Rating{
			ToolID: tool.ID,
			UserID: user.ID,
			Score:  score,
		}))
	}

	average, err := toolRepo.RecomputeAverageRating(tool.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, average, 0.0001)

	stored, err := toolRepo.FindByID(tool.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, stored.AverageRating, 0.0001)

	// A fourth rating shifts the mean to 13/4
	require.NoError(t, ratingRepo.Create(&domain.Rating{ToolID: tool.ID, UserID: user.ID, Score: 1}))
	average, err = toolRepo.RecomputeAverageRating(tool.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.25, average, 0.0001)
}

func TestRecomputeAverageRatingNoRatings(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger()
	toolRepo := NewToolRepository(db, log)

	tool := seedTool(t, toolRepo, "puansız araç")

	average, err := toolRepo.RecomputeAverageRating(tool.ID)
	require.NoError(t, err)
	assert.Zero(t, average)
}

func TestRecomputeAverageRatingUnknownTool(t *testing.T) {
	db := newTestDB(t)
	toolRepo := NewToolRepository(db, newTestLogger())

	_, err := toolRepo.RecomputeAverageRating(9999)
	assert.ErrorIs(t, err, domain.ErrToolNotFound)
}

func TestFindTrendingOrdering(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger()
	toolRepo := NewToolRepository(db, log)
	ratingRepo := NewRatingRepository(db, log)
	userRepo := NewUserRepository(db, log)

	user := seedUser(t, userRepo, "puanci@test.com")

	low := seedTool(t, toolRepo, "düşük")
	high := seedTool(t, toolRepo, "yüksek")
	unrated := seedTool(t, toolRepo, "puansız")

	require.NoError(t, ratingRepo.Create(&domain.Rating{ToolID: low.ID, UserID: user.ID, Score: 2}))
	require.NoError(t, ratingRepo.Create(&domain.Rating{ToolID: high.ID, UserID: user.ID, Score: 5}))

	trending, err := toolRepo.FindTrending(10)
	require.NoError(t, err)
	require.Len(t, trending, 3)

	assert.Equal(t, high.ID, trending[0].Tool.ID)
	assert.Equal(t, low.ID, trending[1].Tool.ID)
	assert.Equal(t, unrated.ID, trending[2].Tool.ID)

	require.NotNil(t, trending[0].AverageRating)
	assert.InDelta(t, 5.0, *trending[0].AverageRating, 0.0001)
	assert.Equal(t, int64(1), trending[0].RatingCount)

	// Unrated tools sort last and carry no average at all
	assert.Nil(t, trending[2].AverageRating)
	assert.Equal(t, int64(0), trending[2].RatingCount)
}

func TestFindTrendingTieBreaks(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger()
	toolRepo := NewToolRepository(db, log)
	ratingRepo := NewRatingRepository(db, log)
	userRepo := NewUserRepository(db, log)

	user := seedUser(t, userRepo, "puanci@test.com")

	once := seedTool(t, toolRepo, "tek puanlı")
	twice := seedTool(t, toolRepo, "çift puanlı")

	// Equal averages; the tool with more ratings wins
	require.NoError(t, ratingRepo.Create(&domain.Rating{ToolID: once.ID, UserID: user.ID, Score: 4}))
	require.NoError(t, ratingRepo.Create(&domain.Rating{ToolID: twice.ID, UserID: user.ID, Score: 4}))
	require.NoError(t, ratingRepo.Create(&domain.Rating{ToolID: twice.ID, UserID: user.ID, Score: 4}))

	trending, err := toolRepo.FindTrending(10)
	require.NoError(t, err)
	require.Len(t, trending, 2)

	assert.Equal(t, twice.ID, trending[0].Tool.ID)
	assert.Equal(t, once.ID, trending[1].Tool.ID)
}

func TestFindTrendingLimitAndRejected(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger()
	toolRepo := NewToolRepository(db, log)

	for i := 0; i < 4; i++ {
		seedTool(t, toolRepo, "araç")
	}

	rejected := seedTool(t, toolRepo, "reddedilen")
	rejected.Rejected = true
	require.NoError(t, toolRepo.Update(rejected))

	trending, err := toolRepo.FindTrending(3)
	require.NoError(t, err)
	assert.Len(t, trending, 3)

	all, err := toolRepo.FindTrending(10)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	for _, entry := range all {
		assert.NotEqual(t, rejected.ID, entry.Tool.ID)
	}
}

func TestUpdateDoesNotTouchAverage(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger()
	toolRepo := NewToolRepository(db, log)
	ratingRepo := NewRatingRepository(db, log)
	userRepo := NewUserRepository(db, log)

	tool := seedTool(t, toolRepo, "araç")
	user := seedUser(t, userRepo, "puanci@test.com")

	require.NoError(t, ratingRepo.Create(&domain.Rating{ToolID: tool.ID, UserID: user.ID, Score: 5}))
	_, err := toolRepo.RecomputeAverageRating(tool.ID)
	require.NoError(t, err)

	tool.Name = "yeni ad"
	require.NoError(t, toolRepo.Update(tool))

	stored, err := toolRepo.FindByID(tool.ID)
	require.NoError(t, err)
	assert.Equal(t, "yeni ad", stored.Name)
	assert.InDelta(t, 5.0, stored.AverageRating, 0.0001)
}
