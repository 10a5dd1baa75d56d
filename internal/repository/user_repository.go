package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"toolhub/internal/domain"
	"toolhub/pkg/logger"
)

type UserRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewUserRepository(db *sql.DB, logger logger.Logger) domain.UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

func (r *UserRepository) FindByID(id int64) (*domain.User, error) {
	query := `SELECT id, username, email, password_hash, role, city, created_at FROM users WHERE id = $1`

	var user domain.User
	var city sql.NullString
	err := r.db.QueryRow(query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&city,
		&user.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Kullanıcı ID'ye göre bulunamadı", map[string]interface{}{"id": id, "error": err.Error()})
		return nil, fmt.Errorf("kullanıcı sorgusu başarısız: %w", err)
	}

	user.City = city.String
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*domain.User, error) {
	query := `SELECT id, username, email, password_hash, role, city, created_at FROM users WHERE email = $1`

	var user domain.User
	var city sql.NullString
	err := r.db.QueryRow(query, email).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&city,
		&user.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Kullanıcı e-posta adresine göre bulunamadı", map[string]interface{}{"email": email, "error": err.Error()})
		return nil, fmt.Errorf("kullanıcı sorgusu başarısız: %w", err)
	}

	user.City = city.String
	return &user, nil
}

func (r *UserRepository) FindAll() ([]*domain.User, error) {
	query := `SELECT id, username, email, password_hash, role, city, created_at FROM users ORDER BY id`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("Kullanıcılar listelenemedi", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("kullanıcı listesi sorgusu başarısız: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		var city sql.NullString
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&city,
			&user.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("kullanıcı satırı okunamadı: %w", err)
		}
		user.City = city.String
		users = append(users, &user)
	}

	return users, rows.Err()
}

func (r *UserRepository) Create(user *domain.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, role, city, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	user.CreatedAt = time.Now()
	if user.Role == "" {
		user.Role = domain.RoleUser
	}

	res, err := r.db.Exec(query, user.Username, user.Email, user.PasswordHash, user.Role, user.City, user.CreatedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return domain.ErrEmailTaken
		}
		r.logger.Error("Kullanıcı oluşturulamadı", map[string]interface{}{"email": user.Email, "error": err.Error()})
		return fmt.Errorf("kullanıcı oluşturulamadı: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("kullanıcı ID'si alınamadı: %w", err)
	}

	user.ID = id
	return nil
}

func (r *UserRepository) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Kullanıcı silinemedi", map[string]interface{}{"id": id, "error": err.Error()})
		return fmt.Errorf("kullanıcı silinemedi: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}
