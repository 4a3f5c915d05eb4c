package models

import "time"

// User is an account of the sync service.
type User struct {
	// UserID is the server-assigned identifier. It becomes the owner of every
	// entity the user pushes.
	UserID int64 `json:"-"`

	// Login is unique across the service.
	Login string `json:"login"`

	// Password is accepted on register/login only and never stored as is.
	Password string `json:"password,omitempty"`

	// PasswordHash is the bcrypt hash persisted in the users table.
	PasswordHash string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table backing [User].
func (u User) TableName() string {
	return "users"
}
