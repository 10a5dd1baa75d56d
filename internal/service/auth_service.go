package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"toolhub/internal/domain"
	"toolhub/pkg/logger"
)

type tokenClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	userRepo domain.UserRepository
	secret   []byte
	tokenTTL time.Duration
	logger   logger.Logger
}

func NewAuthService(userRepo domain.UserRepository, secret string, tokenTTL time.Duration, logger logger.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// Authenticate checks the credentials and issues an HS256 token carrying
// the user's id, email and role. Unknown email and wrong password produce
// the same error.
func (s *AuthService) Authenticate(email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return "", fmt.Errorf("kullanıcı sorgusu başarısız: %w", err)
	}
	if user == nil {
		return "", domain.ErrAuthentication
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrAuthentication
	}

	now := time.Now()
	claims := tokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			Subject:   fmt.Sprintf("%d", user.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token imzalanamadı: %w", err)
	}

	s.logger.Info("Kullanıcı giriş yaptı", map[string]interface{}{"user_id": user.ID})
	return signed, nil
}

// Authorize validates the token and, when requiredRole is non-empty,
// enforces the role carried in the signed payload. The role is not
// re-checked against the database; a demotion takes effect when the
// current token expires.
func (s *AuthService) Authorize(tokenString, requiredRole string) (*domain.Principal, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("beklenmeyen imza yöntemi: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token süresi dolmuş", domain.ErrInvalidToken)
		}
		return nil, domain.ErrInvalidToken
	}

	if requiredRole != "" && claims.Role != requiredRole {
		return nil, domain.ErrForbidden
	}

	return &domain.Principal{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}
