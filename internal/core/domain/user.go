package domain

import (
	"errors"
	"time"
)

const (
	RoleCitizen = "citizen"
	RoleStaff   = "staff"
	RoleAdmin   = "admin"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("email is already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrRoleNotAllowed = errors.New("only citizen registrations are allowed")

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         string    `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}
