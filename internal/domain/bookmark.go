package domain

import "time"

// Bookmark links a user to a tool. The (user_id, tool_id) pair is unique
// at the schema level; the repository reports a duplicate insert as
// created=false instead of an error.
type Bookmark struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ToolID    int64     `json:"tool_id"`
	CreatedAt time.Time `json:"created_at"`
}

type BookmarkRepository interface {
	Create(bookmark *Bookmark) (created bool, err error)
	Delete(userID, toolID int64) (removed bool, err error)
	Exists(userID, toolID int64) (bool, error)
	FindToolsByUserID(userID int64) ([]*Tool, error)
}

type BookmarkService interface {
	AddBookmark(userID, toolID int64) (created bool, err error)
	RemoveBookmark(userID, toolID int64) (removed bool, err error)
	IsBookmarked(userID, toolID int64) (bool, error)
	GetBookmarkedTools(userID int64) ([]*Tool, error)
}
