package service

import (
	"fmt"

	"toolhub/internal/domain"
	"toolhub/pkg/logger"
	"toolhub/pkg/metrics"
)

// RecomputeQueue accepts tool ids whose stored average should be
// recomputed again later. Enqueue never blocks; a false return means the
// queue is full and the periodic sweep will pick the tool up instead.
type RecomputeQueue interface {
	Enqueue(toolID int64) bool
}

type RatingService struct {
	repo         domain.RatingRepository
	toolRepo     domain.ToolRepository
	auditLogRepo domain.AuditLogRepository
	recompute    RecomputeQueue
	logger       logger.Logger
}

func NewRatingService(
	repo domain.RatingRepository,
	toolRepo domain.ToolRepository,
	auditLogRepo domain.AuditLogRepository,
	logger logger.Logger,
) *RatingService {
	return &RatingService{
		repo:         repo,
		toolRepo:     toolRepo,
		auditLogRepo: auditLogRepo,
		logger:       logger,
	}
}

// SetRecomputeQueue wires the background reconciler in; the service works
// without one, it just loses the retry path after a failed aggregate write.
func (s *RatingService) SetRecomputeQueue(queue RecomputeQueue) {
	s.recompute = queue
}

// SubmitRating persists a new rating, then recomputes the tool's average
// from every stored rating. Validation happens before any write. A failed
// insert aborts before the recompute; a failed recompute is surfaced but
// leaves the rating in place, because re-running the full recompute later
// converges on the correct mean anyway.
func (s *RatingService) SubmitRating(toolID, userID int64, score int, comment string) (*domain.Rating, error) {
	if toolID <= 0 {
		return nil, fmt.Errorf("%w: araç ID'si eksik", domain.ErrValidation)
	}
	if userID <= 0 {
		return nil, fmt.Errorf("%w: kullanıcı ID'si eksik", domain.ErrValidation)
	}
	if score < domain.MinRatingScore || score > domain.MaxRatingScore {
		return nil, fmt.Errorf("%w: puan %d ile %d arasında olmalı", domain.ErrValidation, domain.MinRatingScore, domain.MaxRatingScore)
	}

	tool, err := s.toolRepo.FindByID(toolID)
	if err != nil {
		return nil, fmt.Errorf("araç kontrolü başarısız: %w", err)
	}
	if tool == nil {
		return nil, domain.ErrToolNotFound
	}

	rating := &domain.Rating{
		ToolID:  toolID,
		UserID:  userID,
		Score:   score,
		Comment: comment,
	}

	if err := s.repo.Create(rating); err != nil {
		metrics.RecordRatingSubmission("failed")
		return nil, err
	}

	if _, err := s.toolRepo.RecomputeAverageRating(toolID); err != nil {
		// The rating is saved; queue the tool so the reconciler writes
		// the aggregate as soon as the store recovers.
		if s.recompute != nil {
			s.recompute.Enqueue(toolID)
		}
		s.logger.Error("Ortalama güncellenemedi, yeniden hesaplama kuyruğa alındı", map[string]interface{}{
			"tool_id": toolID,
			"error":   err.Error(),
		})
		metrics.RecordRatingSubmission("aggregate_failed")
		return nil, fmt.Errorf("değerlendirme kaydedildi ancak ortalama güncellenemedi: %w", err)
	}

	auditLog := &domain.AuditLog{
		EntityType: domain.EntityTypeRating,
		EntityID:   rating.ID,
		Action:     domain.ActionTypeCreate,
		Details:    fmt.Sprintf("Araç %d için %d puan verildi", toolID, score),
	}
	if err := s.auditLogRepo.Create(auditLog); err != nil {
		s.logger.Error("Denetim kaydı oluşturulamadı", map[string]interface{}{"rating_id": rating.ID, "error": err.Error()})
	}

	metrics.RecordRatingSubmission("completed")
	return rating, nil
}

func (s *RatingService) GetRatingsByTool(toolID int64) ([]*domain.Rating, error) {
	if toolID <= 0 {
		return nil, fmt.Errorf("%w: araç ID'si eksik", domain.ErrValidation)
	}

	ratings, err := s.repo.FindByToolID(toolID)
	if err != nil {
		return nil, fmt.Errorf("değerlendirmeler alınamadı: %w", err)
	}

	return ratings, nil
}

func (s *RatingService) GetAverageForTool(toolID int64) (float64, error) {
	if toolID <= 0 {
		return 0, fmt.Errorf("%w: araç ID'si eksik", domain.ErrValidation)
	}

	average, err := s.repo.AverageForTool(toolID)
	if err != nil {
		return 0, fmt.Errorf("ortalama alınamadı: %w", err)
	}

	return average, nil
}
