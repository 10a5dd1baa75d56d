package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolhub/internal/domain"
)

func newRatingService(e *testEnv) *RatingService {
	return NewRatingService(e.ratingRepo, e.toolRepo, e.auditRepo, e.logger)
}

func TestSubmitRatingRecomputesAverage(t *testing.T) {
	env := newTestEnv(t)
	svc := newRatingService(env)

	tool := env.seedTool(t, "araç")
	user := env.seedUser(t, "puanci@test.com")

	for _, score := range []int{5, 3, 4} {
		rating, err := svc.SubmitRating(tool.ID, user.ID, score, "")
		require.NoError(t, err)
		assert.NotZero(t, rating.ID)
	}

	stored, err := env.toolRepo.FindByID(tool.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, stored.AverageRating, 0.0001)

	_, err = svc.SubmitRating(tool.ID, user.ID, 1, "")
	require.NoError(t, err)

	stored, err = env.toolRepo.FindByID(tool.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.25, stored.AverageRating, 0.0001)
}

func TestSubmitRatingValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := newRatingService(env)

	tool := env.seedTool(t, "araç")
	user := env.seedUser(t, "puanci@test.com")

	cases := []struct {
		name   string
		toolID int64
		userID int64
		score  int
	}{
		{"puan çok düşük", tool.ID, user.ID, 0},
		{"puan çok yüksek", tool.ID, user.ID, 6},
		{"araç ID'si yok", 0, user.ID, 3},
		{"kullanıcı ID'si yok", tool.ID, 0, 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SubmitRating(tc.toolID, tc.userID, tc.score, "")
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	// Nothing was written on any rejected submission
	ratings, err := env.ratingRepo.FindByToolID(tool.ID)
	require.NoError(t, err)
	assert.Empty(t, ratings)
}

func TestSubmitRatingUnknownTool(t *testing.T) {
	env := newTestEnv(t)
	svc := newRatingService(env)

	user := env.seedUser(t, "puanci@test.com")

	_, err := svc.SubmitRating(9999, user.ID, 4, "")
	assert.ErrorIs(t, err, domain.ErrToolNotFound)
}

func TestSubmitRatingAllowsRepeatVotes(t *testing.T) {
	env := newTestEnv(t)
	svc := newRatingService(env)

	tool := env.seedTool(t, "araç")
	user := env.seedUser(t, "puanci@test.com")

	// The same user may rate the same tool any number of times; every
	// submission counts toward the mean.
	_, err := svc.SubmitRating(tool.ID, user.ID, 5, "")
	require.NoError(t, err)
	_, err = svc.SubmitRating(tool.ID, user.ID, 1, "")
	require.NoError(t, err)

	ratings, err := svc.GetRatingsByTool(tool.ID)
	require.NoError(t, err)
	assert.Len(t, ratings, 2)

	average, err := svc.GetAverageForTool(tool.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, average, 0.0001)
}

func TestSubmitRatingKeepsComment(t *testing.T) {
	env := newTestEnv(t)
	svc := newRatingService(env)

	tool := env.seedTool(t, "araç")
	user := env.seedUser(t, "puanci@test.com")

	rating, err := svc.SubmitRating(tool.ID, user.ID, 5, "vazgeçilmez oldu")
	require.NoError(t, err)
	assert.Equal(t, "vazgeçilmez oldu", rating.Comment)

	ratings, err := svc.GetRatingsByTool(tool.ID)
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.Equal(t, "vazgeçilmez oldu", ratings[0].Comment)
}

func TestGetAverageForToolWithoutRatings(t *testing.T) {
	env := newTestEnv(t)
	svc := newRatingService(env)

	tool := env.seedTool(t, "araç")

	average, err := svc.GetAverageForTool(tool.ID)
	require.NoError(t, err)
	assert.Zero(t, average)
}

type recordingQueue struct {
	enqueued []int64
}

func (q *recordingQueue) Enqueue(toolID int64) bool {
	q.enqueued = append(q.enqueued, toolID)
	return true
}

func TestSubmitRatingQueuesRetryWhenAggregateWriteFails(t *testing.T) {
	env := newTestEnv(t)
	svc := newRatingService(env)

	queue := &recordingQueue{}
	svc.SetRecomputeQueue(queue)

	tool := env.seedTool(t, "araç")
	user := env.seedUser(t, "puanci@test.com")

	// Block the aggregate write alone; the ratings table still accepts
	// inserts.
	_, err := env.db.Exec(`
		CREATE TRIGGER block_average_update
		BEFORE UPDATE OF average_rating ON tools
		BEGIN
			SELECT RAISE(ABORT, 'aggregate write blocked');
		END
	`)
	require.NoError(t, err)

	_, err = svc.SubmitRating(tool.ID, user.ID, 4, "")
	require.Error(t, err)

	// The rating itself survived the failed aggregate write
	ratings, err := env.ratingRepo.FindByToolID(tool.ID)
	require.NoError(t, err)
	assert.Len(t, ratings, 1)

	assert.Equal(t, []int64{tool.ID}, queue.enqueued)
}
