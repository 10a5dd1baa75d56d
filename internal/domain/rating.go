package domain

import "time"

const (
	MinRatingScore = 1
	MaxRatingScore = 5
)

// Rating is immutable after creation. A user may submit any number of
// ratings for the same tool; each one participates in the tool's mean.
type Rating struct {
	ID        int64     `json:"id"`
	ToolID    int64     `json:"tool_id"`
	UserID    int64     `json:"user_id"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type RatingRepository interface {
	Create(rating *Rating) error
	FindByToolID(toolID int64) ([]*Rating, error)
	AverageForTool(toolID int64) (float64, error)
	CountForTool(toolID int64) (int64, error)
}

type RatingService interface {
	SubmitRating(toolID, userID int64, score int, comment string) (*Rating, error)
	GetRatingsByTool(toolID int64) ([]*Rating, error)
	GetAverageForTool(toolID int64) (float64, error)
}
