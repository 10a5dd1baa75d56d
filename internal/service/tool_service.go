package service

import (
	"fmt"
	"strings"

	"toolhub/internal/domain"
	"toolhub/pkg/logger"
)

type ToolService struct {
	repo         domain.ToolRepository
	auditLogRepo domain.AuditLogRepository
	logger       logger.Logger
}

func NewToolService(repo domain.ToolRepository, auditLogRepo domain.AuditLogRepository, logger logger.Logger) *ToolService {
	return &ToolService{
		repo:         repo,
		auditLogRepo: auditLogRepo,
		logger:       logger,
	}
}

func (s *ToolService) GetToolByID(id int64) (*domain.Tool, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: geçersiz araç ID'si", domain.ErrValidation)
	}

	tool, err := s.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("araç alınamadı: %w", err)
	}
	if tool == nil {
		return nil, domain.ErrToolNotFound
	}

	return tool, nil
}

func (s *ToolService) GetTools() ([]*domain.Tool, error) {
	tools, err := s.repo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("araç listesi alınamadı: %w", err)
	}

	return tools, nil
}

func (s *ToolService) GetFeaturedTools() ([]*domain.Tool, error) {
	tools, err := s.repo.FindFeatured()
	if err != nil {
		return nil, fmt.Errorf("öne çıkan araçlar alınamadı: %w", err)
	}

	return tools, nil
}

// GetTrendingTools returns tools ordered by live average score. A limit of
// zero or less falls back to the default window size.
func (s *ToolService) GetTrendingTools(limit int) ([]*domain.TrendingTool, error) {
	if limit <= 0 {
		limit = domain.DefaultTrendingLimit
	}

	tools, err := s.repo.FindTrending(limit)
	if err != nil {
		return nil, fmt.Errorf("trend araçlar alınamadı: %w", err)
	}

	return tools, nil
}

func (s *ToolService) CreateTool(tool *domain.Tool) error {
	if err := validateTool(tool); err != nil {
		return err
	}

	if err := s.repo.Create(tool); err != nil {
		return fmt.Errorf("araç oluşturulamadı: %w", err)
	}

	auditLog := &domain.AuditLog{
		EntityType: domain.EntityTypeTool,
		EntityID:   tool.ID,
		Action:     domain.ActionTypeCreate,
		Details:    fmt.Sprintf("Araç oluşturuldu: %s", tool.Name),
	}
	if err := s.auditLogRepo.Create(auditLog); err != nil {
		s.logger.Error("Denetim kaydı oluşturulamadı", map[string]interface{}{"tool_id": tool.ID, "error": err.Error()})
	}

	return nil
}

func (s *ToolService) UpdateTool(tool *domain.Tool) error {
	if tool.ID <= 0 {
		return fmt.Errorf("%w: geçersiz araç ID'si", domain.ErrValidation)
	}
	if err := validateTool(tool); err != nil {
		return err
	}

	existing, err := s.repo.FindByID(tool.ID)
	if err != nil {
		return fmt.Errorf("araç kontrolü başarısız: %w", err)
	}
	if existing == nil {
		return domain.ErrToolNotFound
	}

	if err := s.repo.Update(tool); err != nil {
		return fmt.Errorf("araç güncellenemedi: %w", err)
	}

	auditLog := &domain.AuditLog{
		EntityType: domain.EntityTypeTool,
		EntityID:   tool.ID,
		Action:     domain.ActionTypeUpdate,
		Details:    fmt.Sprintf("Araç güncellendi: %s", tool.Name),
	}
	if err := s.auditLogRepo.Create(auditLog); err != nil {
		s.logger.Error("Denetim kaydı oluşturulamadı", map[string]interface{}{"tool_id": tool.ID, "error": err.Error()})
	}

	return nil
}

func (s *ToolService) DeleteTool(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: geçersiz araç ID'si", domain.ErrValidation)
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}

	auditLog := &domain.AuditLog{
		EntityType: domain.EntityTypeTool,
		EntityID:   id,
		Action:     domain.ActionTypeDelete,
		Details:    fmt.Sprintf("Araç silindi: %d", id),
	}
	if err := s.auditLogRepo.Create(auditLog); err != nil {
		s.logger.Error("Denetim kaydı oluşturulamadı", map[string]interface{}{"tool_id": id, "error": err.Error()})
	}

	return nil
}

func validateTool(tool *domain.Tool) error {
	if tool == nil {
		return fmt.Errorf("%w: araç boş olamaz", domain.ErrValidation)
	}
	if strings.TrimSpace(tool.Name) == "" {
		return fmt.Errorf("%w: araç adı gerekli", domain.ErrValidation)
	}

	return nil
}
