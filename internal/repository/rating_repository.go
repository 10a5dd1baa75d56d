package repository

import (
	"database/sql"
	"fmt"
	"time"

	"toolhub/internal/domain"
	"toolhub/pkg/logger"
	"toolhub/pkg/metrics"
)

type RatingRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewRatingRepository(db *sql.DB, logger logger.Logger) domain.RatingRepository {
	return &RatingRepository{
		db:     db,
		logger: logger,
	}
}

func (r *RatingRepository) Create(rating *domain.Rating) error {
	query := `
		INSERT INTO ratings (tool_id, user_id, score, comment, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	start := time.Now()
	rating.CreatedAt = start

	res, err := r.db.Exec(query, rating.ToolID, rating.UserID, rating.Score, rating.Comment, rating.CreatedAt)
	if err != nil {
		r.logger.Error("Değerlendirme kaydedilemedi", map[string]interface{}{
			"tool_id": rating.ToolID,
			"user_id": rating.UserID,
			"error":   err.Error(),
		})
		return fmt.Errorf("%w: değerlendirme kaydedilemedi: %v", domain.ErrPersistence, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("değerlendirme ID'si alınamadı: %w", err)
	}

	rating.ID = id
	metrics.RecordDatabaseOperation("create", "rating", time.Since(start))
	return nil
}

// FindByToolID returns ratings newest first. The id is a second sort key
// so records created in the same instant keep a stable order.
func (r *RatingRepository) FindByToolID(toolID int64) ([]*domain.Rating, error) {
	query := `
		SELECT id, tool_id, user_id, score, comment, created_at
		FROM ratings
		WHERE tool_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(query, toolID)
	if err != nil {
		r.logger.Error("Değerlendirmeler listelenemedi", map[string]interface{}{"tool_id": toolID, "error": err.Error()})
		return nil, fmt.Errorf("değerlendirme listesi sorgusu başarısız: %w", err)
	}
	defer rows.Close()

	ratings := make([]*domain.Rating, 0)
	for rows.Next() {
		var rating domain.Rating
		var comment sql.NullString
		if err := rows.Scan(
			&rating.ID,
			&rating.ToolID,
			&rating.UserID,
			&rating.Score,
			&comment,
			&rating.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("değerlendirme satırı okunamadı: %w", err)
		}
		rating.Comment = comment.String
		ratings = append(ratings, &rating)
	}

	return ratings, rows.Err()
}

// AverageForTool returns 0 for tools without ratings; callers that need
// to distinguish "no data" use the trending query's nullable average.
func (r *RatingRepository) AverageForTool(toolID int64) (float64, error) {
	var average float64
	err := r.db.QueryRow(
		`SELECT COALESCE(AVG(score), 0) FROM ratings WHERE tool_id = $1`,
		toolID,
	).Scan(&average)
	if err != nil {
		r.logger.Error("Ortalama sorgusu başarısız", map[string]interface{}{"tool_id": toolID, "error": err.Error()})
		return 0, fmt.Errorf("ortalama sorgusu başarısız: %w", err)
	}

	return average, nil
}

func (r *RatingRepository) CountForTool(toolID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM ratings WHERE tool_id = $1`,
		toolID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("değerlendirme sayısı sorgusu başarısız: %w", err)
	}

	return count, nil
}
