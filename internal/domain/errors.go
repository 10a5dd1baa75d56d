package domain

import "errors"

var (
	ErrValidation     = errors.New("doğrulama hatası")
	ErrAuthentication = errors.New("geçersiz kimlik bilgileri")
	ErrInvalidToken   = errors.New("geçersiz veya süresi dolmuş token")
	ErrForbidden      = errors.New("bu işlem için yetki yok")
	ErrToolNotFound   = errors.New("araç bulunamadı")
	ErrUserNotFound   = errors.New("kullanıcı bulunamadı")
	ErrEmailTaken     = errors.New("bu e-posta adresi zaten kullanılıyor")
	ErrPersistence    = errors.New("kalıcı depolama hatası")
)
