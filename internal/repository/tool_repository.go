package repository

import (
	"database/sql"
	"fmt"
	"time"

	"toolhub/internal/domain"
	"toolhub/pkg/logger"
	"toolhub/pkg/metrics"
)

type ToolRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewToolRepository(db *sql.DB, logger logger.Logger) domain.ToolRepository {
	return &ToolRepository{
		db:     db,
		logger: logger,
	}
}

const toolColumns = `id, name, description, category, logo_url, version, pricing, platforms,
	active, rejected, featured, average_rating, created_at, updated_at`

func scanTool(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Tool, error) {
	var tool domain.Tool
	var description, category, logoURL, version, pricing, platforms sql.NullString
	err := scanner.Scan(
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
	)
	if err != nil {
		return nil, err
	}

	tool.Description = description.String
	tool.Category = category.String
	tool.LogoURL = logoURL.String
	tool.Version = version.String
	tool.Pricing = pricing.String
	tool.Platforms = platforms.String
	return &tool, nil
}

func (r *ToolRepository) FindByID(id int64) (*domain.Tool, error) {
	query := `SELECT ` + toolColumns + ` FROM tools WHERE id = $1`

	tool, err := scanTool(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Araç ID'ye göre bulunamadı", map[string]interface{}{"id": id, "error": err.Error()})
		return nil, fmt.Errorf("araç sorgusu başarısız: %w", err)
	}

	return tool, nil
}

func (r *ToolRepository) FindAll() ([]*domain.Tool, error) {
	query := `SELECT ` + toolColumns + ` FROM tools WHERE rejected = 0 ORDER BY id`
	return r.queryTools(query)
}

func (r *ToolRepository) FindFeatured() ([]*domain.Tool, error) {
	query := `SELECT ` + toolColumns + ` FROM tools WHERE featured = 1 AND rejected = 0 ORDER BY id`
	return r.queryTools(query)
}

func (r *ToolRepository) queryTools(query string, args ...interface{}) ([]*domain.Tool, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("Araçlar listelenemedi", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("araç listesi sorgusu başarısız: %w", err)
	}
	defer rows.Close()

	var tools []*domain.Tool
	for rows.Next() {
		tool, err := scanTool(rows)
		if err != nil {
			return nil, fmt.Errorf("araç satırı okunamadı: %w", err)
		}
		tools = append(tools, tool)
	}

	return tools, rows.Err()
}

// FindTrending joins tools with their ratings and ranks them by mean
// score. Tools without ratings participate with a nil average and sort
// after every rated tool. Tie-break: rating count descending, then
// tool id ascending.
func (r *ToolRepository) FindTrending(limit int) ([]*domain.TrendingTool, error) {
	query := `
		SELECT t.id, t.name, t.description, t.category, t.logo_url, t.version, t.pricing, t.platforms,
		       t.active, t.rejected, t.featured, t.average_rating, t.created_at, t.updated_at,
		       AVG(r.score) AS avg_score,
		       COUNT(r.id) AS rating_count
		FROM tools t
		LEFT JOIN ratings r ON r.tool_id = t.id
		WHERE t.rejected = 0
		GROUP BY t.id
		ORDER BY avg_score IS NULL, avg_score DESC, rating_count DESC, t.id ASC
		LIMIT $1
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		r.logger.Error("Trend sorgusu başarısız", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("trend sorgusu başarısız: %w", err)
	}
	defer rows.Close()

	var results []*domain.TrendingTool
	for rows.Next() {
		var tool domain.Tool
		var description, category, logoURL, version, pricing, platforms sql.NullString
		var avgScore sql.NullFloat64
		var ratingCount int64

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
			&avgScore,
			&ratingCount,
		); err != nil {
			return nil, fmt.Errorf("trend satırı okunamadı: %w", err)
		}

		tool.Description = description.String
		tool.Category = category.String
		tool.LogoURL = logoURL.String
		tool.Version = version.String
		tool.Pricing = pricing.String
		tool.Platforms = platforms.String

		entry := &domain.TrendingTool{
			Tool:        &tool,
			RatingCount: ratingCount,
		}
		if avgScore.Valid {
			value := avgScore.Float64
			entry.AverageRating = &value
		}
		results = append(results, entry)
	}

	return results, rows.Err()
}

func (r *ToolRepository) Create(tool *domain.Tool) error {
	query := `
		INSERT INTO tools (name, description, category, logo_url, version, pricing, platforms,
			active, rejected, featured, average_rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, $11, $12)
	`

	now := time.Now()
	tool.CreatedAt = now
	tool.UpdatedAt = now
	tool.AverageRating = 0

	res, err := r.db.Exec(query,
		tool.Name, tool.Description, tool.Category, tool.LogoURL,
		tool.Version, tool.Pricing, tool.Platforms,
		tool.Active, tool.Rejected, tool.Featured,
		tool.CreatedAt, tool.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Araç oluşturulamadı", map[string]interface{}{"name": tool.Name, "error": err.Error()})
		return fmt.Errorf("araç oluşturulamadı: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("araç ID'si alınamadı: %w", err)
	}

	tool.ID = id
	return nil
}

// Update never touches average_rating; that column belongs to the
// recompute path alone.
func (r *ToolRepository) Update(tool *domain.Tool) error {
	query := `
		UPDATE tools
		SET name = $1, description = $2, category = $3, logo_url = $4, version = $5,
			pricing = $6, platforms = $7, active = $8, rejected = $9, featured = $10,
			updated_at = $11
		WHERE id = $12
	`

	tool.UpdatedAt = time.Now()

	res, err := r.db.Exec(query,
		tool.Name, tool.Description, tool.Category, tool.LogoURL, tool.Version,
		tool.Pricing, tool.Platforms, tool.Active, tool.Rejected, tool.Featured,
		tool.UpdatedAt, tool.ID,
	)
	if err != nil {
		r.logger.Error("Araç güncellenemedi", map[string]interface{}{"id": tool.ID, "error": err.Error()})
		return fmt.Errorf("araç güncellenemedi: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrToolNotFound
	}

	return nil
}

func (r *ToolRepository) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM tools WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Araç silinemedi", map[string]interface{}{"id": id, "error": err.Error()})
		return fmt.Errorf("araç silinemedi: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrToolNotFound
	}

	return nil
}

// RecomputeAverageRating re-reads every rating of the tool and persists
// the fresh mean. The full re-read makes the operation self-correcting:
// re-running it always converges on the true mean of the stored ratings.
func (r *ToolRepository) RecomputeAverageRating(toolID int64) (float64, error) {
	start := time.Now()

	var average float64
	err := r.db.QueryRow(
		`SELECT COALESCE(AVG(score), 0) FROM ratings WHERE tool_id = $1`,
		toolID,
	).Scan(&average)
	if err != nil {
		r.logger.Error("Ortalama hesaplanamadı", map[string]interface{}{"tool_id": toolID, "error": err.Error()})
		return 0, fmt.Errorf("ortalama hesaplanamadı: %w", err)
	}

	res, err := r.db.Exec(
		`UPDATE tools SET average_rating = $1, updated_at = $2 WHERE id = $3`,
		average, time.Now(), toolID,
	)
	if err != nil {
		r.logger.Error("Ortalama yazılamadı", map[string]interface{}{"tool_id": toolID, "error": err.Error()})
		return 0, fmt.Errorf("%w: ortalama yazılamadı: %v", domain.ErrPersistence, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, domain.ErrToolNotFound
	}

	metrics.RecordDatabaseOperation("recompute_average", "tool", time.Since(start))
	return average, nil
}
