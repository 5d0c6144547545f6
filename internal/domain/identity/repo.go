package identity

import (
	"context"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	List(ctx context.Context, limit, offset int) ([]*User, int, error)
}

type OTPRepository interface {
	Create(ctx context.Context, o *OTPRequest) error
	GetByEmailAndCode(ctx context.Context, email, code string) (*OTPRequest, error)
	DeleteByEmail(ctx context.Context, email string) error
}
