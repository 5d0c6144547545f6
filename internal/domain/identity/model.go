package identity

import (
	"time"

	"github.com/google/uuid"
)

// User maps to the users table.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         string     `db:"role" json:"role"`
	HospitalID   *uuid.UUID `db:"hospital_id" json:"hospital_id,omitempty"`
	DepartmentID *uuid.UUID `db:"department_id" json:"department_id,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// OTPRequest maps to the otp_requests table. A row is a one-time code sent
// to an email address, valid until ExpiresAt.
type OTPRequest struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Code      string    `db:"code" json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// RegisterInput is the payload accepted by user registration.
type RegisterInput struct {
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Password     string     `json:"password"`
	Role         string     `json:"role"`
	HospitalID   *uuid.UUID `json:"hospital_id,omitempty"`
	DepartmentID *uuid.UUID `json:"department_id,omitempty"`
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
