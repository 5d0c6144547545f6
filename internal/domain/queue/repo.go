package queue

import (
	"context"

	"github.com/google/uuid"
)

type TokenRepository interface {
	Create(ctx context.Context, t *Token) error
	GetByID(ctx context.Context, id uuid.UUID) (*Token, error)
	Update(ctx context.Context, t *Token) error
	ListByDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date string) ([]*Token, error)
	ListByHospitalAndDate(ctx context.Context, hospitalID uuid.UUID, date string) ([]*Token, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Token, int, error)
}

type CounterRepository interface {
	// NextNumber atomically increments and returns the (doctor, date)
	// counter. Concurrent callers never see the same value.
	NextNumber(ctx context.Context, doctorID uuid.UUID, date string) (int, error)
}
