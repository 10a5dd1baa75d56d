package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	City         string    `json:"city,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type UserRepository interface {
	FindByID(id int64) (*User, error)
	FindByEmail(email string) (*User, error)
	FindAll() ([]*User, error)
	Create(user *User) error
	Delete(id int64) error
}

type UserService interface {
	GetUserByID(id int64) (*User, error)
	GetUsers() ([]*User, error)
	RegisterUser(username, email, password, city string) (*User, error)
	DeleteUser(id int64) error
}
