package service

import (
	"fmt"

	"toolhub/internal/domain"
	"toolhub/pkg/logger"
	"toolhub/pkg/metrics"
)

type BookmarkService struct {
	repo         domain.BookmarkRepository
	toolRepo     domain.ToolRepository
	auditLogRepo domain.AuditLogRepository
	logger       logger.Logger
}

func NewBookmarkService(
	repo domain.BookmarkRepository,
	toolRepo domain.ToolRepository,
	auditLogRepo domain.AuditLogRepository,
	logger logger.Logger,
) *BookmarkService {
	return &BookmarkService{
		repo:         repo,
		toolRepo:     toolRepo,
		auditLogRepo: auditLogRepo,
		logger:       logger,
	}
}

// AddBookmark saves the user/tool pair. Repeated calls are no-ops: the
// storage-level unique constraint decides whether the pair is new, so
// concurrent duplicates collapse to a single row without a prior read.
func (s *BookmarkService) AddBookmark(userID, toolID int64) (bool, error) {
	if userID <= 0 {
		return false, fmt.Errorf("%w: kullanıcı ID'si eksik", domain.ErrValidation)
	}
	if toolID <= 0 {
		return false, fmt.Errorf("%w: araç ID'si eksik", domain.ErrValidation)
	}

	tool, err := s.toolRepo.FindByID(toolID)
	if err != nil {
		return false, fmt.Errorf("araç kontrolü başarısız: %w", err)
	}
	if tool == nil {
		return false, domain.ErrToolNotFound
	}

	created, err := s.repo.Create(&domain.Bookmark{UserID: userID, ToolID: toolID})
	if err != nil {
		metrics.RecordBookmarkOperation("add", "failed")
		return false, err
	}

	if created {
		auditLog := &domain.AuditLog{
			EntityType: domain.EntityTypeBookmark,
			EntityID:   toolID,
			Action:     domain.ActionTypeCreate,
			Details:    fmt.Sprintf("Kullanıcı %d araç %d'i kaydetti", userID, toolID),
		}
		if err := s.auditLogRepo.Create(auditLog); err != nil {
			s.logger.Error("Denetim kaydı oluşturulamadı", map[string]interface{}{"user_id": userID, "tool_id": toolID, "error": err.Error()})
		}
		metrics.RecordBookmarkOperation("add", "created")
	} else {
		metrics.RecordBookmarkOperation("add", "duplicate")
	}

	return created, nil
}

// RemoveBookmark deletes the pair if present; removing an absent bookmark
// is not an error.
func (s *BookmarkService) RemoveBookmark(userID, toolID int64) (bool, error) {
	if userID <= 0 {
		return false, fmt.Errorf("%w: kullanıcı ID'si eksik", domain.ErrValidation)
	}
	if toolID <= 0 {
		return false, fmt.Errorf("%w: araç ID'si eksik", domain.ErrValidation)
	}

	removed, err := s.repo.Delete(userID, toolID)
	if err != nil {
		metrics.RecordBookmarkOperation("remove", "failed")
		return false, err
	}

	if removed {
		auditLog := &domain.AuditLog{
			EntityType: domain.EntityTypeBookmark,
			EntityID:   toolID,
			Action:     domain.ActionTypeDelete,
			Details:    fmt.Sprintf("Kullanıcı %d araç %d kaydını sildi", userID, toolID),
		}
		if err := s.auditLogRepo.Create(auditLog); err != nil {
			s.logger.Error("Denetim kaydı oluşturulamadı", map[string]interface{}{"user_id": userID, "tool_id": toolID, "error": err.Error()})
		}
		metrics.RecordBookmarkOperation("remove", "removed")
	} else {
		metrics.RecordBookmarkOperation("remove", "missing")
	}

	return removed, nil
}

func (s *BookmarkService) IsBookmarked(userID, toolID int64) (bool, error) {
	if userID <= 0 || toolID <= 0 {
		return false, fmt.Errorf("%w: geçersiz ID", domain.ErrValidation)
	}

	exists, err := s.repo.Exists(userID, toolID)
	if err != nil {
		return false, fmt.Errorf("kayıt kontrolü başarısız: %w", err)
	}

	return exists, nil
}

func (s *BookmarkService) GetBookmarkedTools(userID int64) ([]*domain.Tool, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: kullanıcı ID'si eksik", domain.ErrValidation)
	}

	tools, err := s.repo.FindToolsByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("kayıtlı araçlar alınamadı: %w", err)
	}

	return tools, nil
}
