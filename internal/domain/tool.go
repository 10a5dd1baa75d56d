package domain

import "time"

// DefaultTrendingLimit is how many tools the trending list returns when the
// caller does not ask for a specific window size.
const DefaultTrendingLimit = 5

type Tool struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category,omitempty"`
	LogoURL       string    `json:"logo_url,omitempty"`
	Version       string    `json:"version,omitempty"`
	Pricing       string    `json:"pricing,omitempty"`
	Platforms     string    `json:"platforms,omitempty"`
	Active        bool      `json:"active"`
	Rejected      bool      `json:"rejected"`
	Featured      bool      `json:"featured"`
	AverageRating float64   `json:"average_rating"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TrendingTool is a read model produced by the trending aggregation.
// AverageRating is nil for tools without any rating; this is distinct
// from a stored average of 0.
type TrendingTool struct {
	Tool          *Tool    `json:"tool"`
	AverageRating *float64 `json:"average_rating"`
	RatingCount   int64    `json:"rating_count"`
}

type ToolRepository interface {
	FindByID(id int64) (*Tool, error)
	FindAll() ([]*Tool, error)
	FindFeatured() ([]*Tool, error)
	FindTrending(limit int) ([]*TrendingTool, error)
	Create(tool *Tool) error
	Update(tool *Tool) error
	Delete(id int64) error

	// RecomputeAverageRating re-reads every rating of the tool and writes
	// the fresh mean onto the tool row. Safe to call at any time.
	RecomputeAverageRating(toolID int64) (float64, error)
}

type ToolService interface {
	GetToolByID(id int64) (*Tool, error)
	GetTools() ([]*Tool, error)
	GetTrendingTools(limit int) ([]*TrendingTool, error)
	GetFeaturedTools() ([]*Tool, error)
	CreateTool(tool *Tool) error
	UpdateTool(tool *Tool) error
	DeleteTool(id int64) error
}
