package service

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"toolhub/internal/domain"
	"toolhub/pkg/logger"
)

type UserService struct {
	repo         domain.UserRepository
	auditLogRepo domain.AuditLogRepository
	logger       logger.Logger
}

func NewUserService(repo domain.UserRepository, auditLogRepo domain.AuditLogRepository, logger logger.Logger) *UserService {
	return &UserService{
		repo:         repo,
		auditLogRepo: auditLogRepo,
		logger:       logger,
	}
}

func (s *UserService) GetUserByID(id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: geçersiz kullanıcı ID'si", domain.ErrValidation)
	}

	user, err := s.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("kullanıcı alınamadı: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	return user, nil
}

func (s *UserService) GetUsers() ([]*domain.User, error) {
	users, err := s.repo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("kullanıcı listesi alınamadı: %w", err)
	}

	return users, nil
}

// RegisterUser creates an account with the default role. The password is
// stored only as a bcrypt hash.
func (s *UserService) RegisterUser(username, email, password, city string) (*domain.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("%w: kullanıcı adı gerekli", domain.ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: geçersiz e-posta adresi", domain.ErrValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: şifre en az 8 karakter olmalı", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("şifre işlenemedi: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		City:         city,
	}

	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	auditLog := &domain.AuditLog{
		EntityType: domain.EntityTypeUser,
		EntityID:   user.ID,
		Action:     domain.ActionTypeCreate,
		Details:    fmt.Sprintf("Kullanıcı kaydedildi: %s", user.Email),
	}
	if err := s.auditLogRepo.Create(auditLog); err != nil {
		s.logger.Error("Denetim kaydı oluşturulamadı", map[string]interface{}{"user_id": user.ID, "error": err.Error()})
	}

	return user, nil
}

func (s *UserService) DeleteUser(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: geçersiz kullanıcı ID'si", domain.ErrValidation)
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}

	auditLog := &domain.AuditLog{
		EntityType: domain.EntityTypeUser,
		EntityID:   id,
		Action:     domain.ActionTypeDelete,
		Details:    fmt.Sprintf("Kullanıcı silindi: %d", id),
	}
	if err := s.auditLogRepo.Create(auditLog); err != nil {
		s.logger.Error("Denetim kaydı oluşturulamadı", map[string]interface{}{"user_id": id, "error": err.Error()})
	}

	return nil
}
