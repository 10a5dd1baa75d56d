package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"toolhub/internal/domain"
	"toolhub/pkg/logger"
)

type BookmarkRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewBookmarkRepository(db *sql.DB, logger logger.Logger) domain.BookmarkRepository {
	return &BookmarkRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts the bookmark and lets the UNIQUE (user_id, tool_id)
// constraint arbitrate races: whichever concurrent insert loses gets the
// constraint violation and reports created=false. No SELECT-then-INSERT
// window exists.
func (r *BookmarkRepository) Create(bookmark *domain.Bookmark) (bool, error) {
	query := `
		INSERT INTO bookmarks (user_id, tool_id, created_at)
		VALUES ($1, $2, $3)
	`

	bookmark.CreatedAt = time.Now()

	res, err := r.db.Exec(query, bookmark.UserID, bookmark.ToolID, bookmark.CreatedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return false, nil
		}
		r.logger.Error("Yer imi oluşturulamadı", map[string]interface{}{
			"user_id": bookmark.UserID,
			"tool_id": bookmark.ToolID,
			"error":   err.Error(),
		})
		return false, fmt.Errorf("%w: yer imi oluşturulamadı: %v", domain.ErrPersistence, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("yer imi ID'si alınamadı: %w", err)
	}

	bookmark.ID = id
	return true, nil
}

func (r *BookmarkRepository) Delete(userID, toolID int64) (bool, error) {
	res, err := r.db.Exec(
		`DELETE FROM bookmarks WHERE user_id = $1 AND tool_id = $2`,
		userID, toolID,
	)
	if err != nil {
		r.logger.Error("Yer imi silinemedi", map[string]interface{}{
			"user_id": userID,
			"tool_id": toolID,
			"error":   err.Error(),
		})
		return false, fmt.Errorf("%w: yer imi silinemedi: %v", domain.ErrPersistence, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *BookmarkRepository) Exists(userID, toolID int64) (bool, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM bookmarks WHERE user_id = $1 AND tool_id = $2`,
		userID, toolID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("yer imi sorgusu başarısız: %w", err)
	}

	return count > 0, nil
}

// FindToolsByUserID dereferences bookmarks into tools. The INNER JOIN
// silently drops bookmarks whose tool has since been deleted.
func (r *BookmarkRepository) FindToolsByUserID(userID int64) ([]*domain.Tool, error) {
	query := `
		SELECT t.id, t.name, t.description, t.category, t.logo_url, t.version, t.pricing, t.platforms,
		       t.active, t.rejected, t.featured, t.average_rating, t.created_at, t.updated_at
		FROM bookmarks b
		JOIN tools t ON t.id = b.tool_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC, b.id DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		r.logger.Error("Yer imleri listelenemedi", map[string]interface{}{"user_id": userID, "error": err.Error()})
		return nil, fmt.Errorf("yer imi listesi sorgusu başarısız: %w", err)
	}
	defer rows.Close()

	tools := make([]*domain.Tool, 0)
	for rows.Next() {
		var tool domain.Tool
		var description, category, logoURL, version, pricing, platforms sql.NullString
		if err := rows.Scan(
			&tool.ID,
			&tool.Name,
			&description,
			&category,
			&logoURL,
			&version,
			&pricing,
			&platforms,
			&tool.Active,
			&tool.Rejected,
			&tool.Featured,
			&tool.AverageRating,
			&tool.CreatedAt,
			&tool.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("yer imi satırı okunamadı: %w", err)
		}
		tool.Description = description.String
		tool.Category = category.String
		tool.LogoURL = logoURL.String
		tool.Version = version.String
		tool.Pricing = pricing.String
		tool.Platforms = platforms.String
		tools = append(tools, &tool)
	}

	return tools, rows.Err()
}
