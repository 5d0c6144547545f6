package roster

import (
	"context"

	"github.com/google/uuid"
)

type ScheduleRepository interface {
	// ReplaceWeekly swaps the doctor's entire week atomically.
	ReplaceWeekly(ctx context.Context, doctorID uuid.UUID, days []DaySchedule) error
	GetWeekly(ctx context.Context, doctorID uuid.UUID) (*WeeklySchedule, error)
}
