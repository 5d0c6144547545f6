package roster

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/adarshprakasan/Hospiq/internal/domain/directory"
)

var ErrScheduleNotSet = errors.New("schedule not set")

// DoctorDirectory is the slice of the directory service the roster needs.
type DoctorDirectory interface {
	GetDoctor(ctx context.Context, id uuid.UUID) (*directory.Doctor, error)
	GetDoctorByUserID(ctx context.Context, userID uuid.UUID) (*directory.Doctor, error)
}

type Service struct {
	schedules ScheduleRepository
	doctors   DoctorDirectory
}

func NewService(schedules ScheduleRepository, doctors DoctorDirectory) *Service {
	return &Service{schedules: schedules, doctors: doctors}
}

// SetWeekly validates and stores a doctor's full week. Every weekday must
// appear exactly once; available days need a well formed window.
func (s *Service) SetWeekly(ctx context.Context, doctorID uuid.UUID, days []DaySchedule) (*WeeklySchedule, error) {
	if _, err := s.doctors.GetDoctor(ctx, doctorID); err != nil {
		return nil, directory.ErrDoctorNotFound
	}

	if len(days) != 7 {
		return nil, fmt.Errorf("expected 7 day entries, got %d", len(days))
	}
	seen := make(map[string]bool, 7)
	for i := range days {
		name, ok := canonicalDay(days[i].Day)
		if !ok {
			return nil, fmt.Errorf("unknown day %q", days[i].Day)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate day %q", name)
		}
		seen[name] = true
		days[i].Day = name

		if !days[i].IsAvailable {
			days[i].StartTime = ""
			days[i].EndTime = ""
			continue
		}
		start, err := ParseClock(days[i].StartTime)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		end, err := ParseClock(days[i].EndTime)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if start >= end {
			return nil, fmt.Errorf("%s: start time must be before end time", name)
		}
	}

	if err := s.schedules.ReplaceWeekly(ctx, doctorID, days); err != nil {
		return nil, err
	}
	return s.schedules.GetWeekly(ctx, doctorID)
}

func (s *Service) GetWeekly(ctx context.Context, doctorID uuid.UUID) (*WeeklySchedule, error) {
	w, err := s.schedules.GetWeekly(ctx, doctorID)
	if err != nil {
		return nil, ErrScheduleNotSet
	}
	return w, nil
}
