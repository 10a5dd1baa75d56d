package repository

import (
	"database/sql"
	"fmt"
	"time"

	"toolhub/internal/domain"
	"toolhub/pkg/logger"
)

type AuditLogRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewAuditLogRepository(db *sql.DB, logger logger.Logger) domain.AuditLogRepository {
	return &AuditLogRepository{
		db:     db,
		logger: logger,
	}
}

func (r *AuditLogRepository) Create(log *domain.AuditLog) error {
	query := `
		INSERT INTO audit_logs (entity_type, entity_id, action, details, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	log.CreatedAt = time.Now()

	res, err := r.db.Exec(query, log.EntityType, log.EntityID, log.Action, log.Details, log.CreatedAt)
	if err != nil {
		r.logger.Error("Denetim kaydı oluşturulamadı", map[string]interface{}{"error": err.Error()})
		return fmt.Errorf("denetim kaydı oluşturulamadı: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	log.ID = id
	return nil
}

func (r *AuditLogRepository) FindByEntityID(entityType domain.EntityType, entityID int64) ([]*domain.AuditLog, error) {
	query := `
		SELECT id, entity_type, entity_id, action, details, created_at
		FROM audit_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC, id DESC
	`

	return r.queryLogs(query, entityType, entityID)
}

func (r *AuditLogRepository) FindAll(limit, offset int) ([]*domain.AuditLog, error) {
	query := `
		SELECT id, entity_type, entity_id, action, details, created_at
		FROM audit_logs
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	return r.queryLogs(query, limit, offset)
}

func (r *AuditLogRepository) queryLogs(query string, args ...interface{}) ([]*domain.AuditLog, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("Denetim kayıtları listelenemedi", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("denetim kaydı sorgusu başarısız: %w", err)
	}
	defer rows.Close()

	var logs []*domain.AuditLog
	for rows.Next() {
		var log domain.AuditLog
		var details sql.NullString
		if err := rows.Scan(
			&log.ID,
			&log.EntityType,
			&log.EntityID,
			&log.Action,
			&details,
			&log.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("denetim kaydı satırı okunamadı: %w", err)
		}
		log.Details = details.String
		logs = append(logs, &log)
	}

	return logs, rows.Err()
}
