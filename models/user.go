package models

import "time"

// SignupRequest registers a dashboard account. Admin access is granted
// separately through the admin_users registry.
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// User is a row of the users table. ID is the uuid carried as the token subject.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	HashedPassword []byte    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Profile is what an authenticated caller learns about itself.
type Profile struct {
	UserID  string `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
}
