package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"toolhub/internal/domain"
)

func newUserService(e *testEnv) *UserService {
	return NewUserService(e.userRepo, e.auditRepo, e.logger)
}

func TestRegisterUser(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserService(env)

	user, err := svc.RegisterUser("ayse", "Ayse@Test.com", "gizli-parola", "İstanbul")
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "ayse@test.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEqual(t, "gizli-parola", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("gizli-parola")))
}

func TestRegisterUserValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserService(env)

	_, err := svc.RegisterUser("", "a@test.com", "gizli-parola", "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.RegisterUser("ali", "epostasız", "gizli-parola", "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.RegisterUser("ali", "a@test.com", "kısa", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRegisterUserDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserService(env)

	_, err := svc.RegisterUser("ali", "ali@test.com", "gizli-parola", "")
	require.NoError(t, err)

	_, err = svc.RegisterUser("veli", "ali@test.com", "gizli-parola", "")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestGetUserByIDNotFound(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserService(env)

	_, err := svc.GetUserByID(9999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
