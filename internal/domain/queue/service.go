package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adarshprakasan/Hospiq/internal/domain/directory"
	"github.com/adarshprakasan/Hospiq/internal/domain/roster"
)

var (
	ErrInvalidStatus = errors.New("invalid status")
	ErrTokenNotFound = errors.New("token not found")
	ErrNotTokenOwner = errors.New("token belongs to another patient")
	ErrTokenFinished = errors.New("token already finished")
)

// DoctorDirectory is the slice of the directory service the queue needs.
type DoctorDirectory interface {
	GetDoctor(ctx context.Context, id uuid.UUID) (*directory.Doctor, error)
	GetDoctorByUserID(ctx context.Context, userID uuid.UUID) (*directory.Doctor, error)
}

// ScheduleSource resolves a doctor's working week.
type ScheduleSource interface {
	GetWeekly(ctx context.Context, doctorID uuid.UUID) (*roster.WeeklySchedule, error)
}

type Service struct {
	tokens    TokenRepository
	counter   CounterRepository
	doctors   DoctorDirectory
	schedules ScheduleSource
	loc       *time.Location
	now       func() time.Time
}

func NewService(tokens TokenRepository, counter CounterRepository, doctors DoctorDirectory, schedules ScheduleSource, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		tokens:    tokens,
		counter:   counter,
		doctors:   doctors,
		schedules: schedules,
		loc:       loc,
		now:       time.Now,
	}
}

// Book issues the next token for a doctor to a registered patient. The
// validator runs against the doctor's current week each attempt.
func (s *Service) Book(ctx context.Context, patientID, doctorID uuid.UUID, departmentID *uuid.UUID) (*Token, error) {
	doc, err := s.doctors.GetDoctor(ctx, doctorID)
	if err != nil {
		return nil, directory.ErrDoctorNotFound
	}

	week, err := s.schedules.GetWeekly(ctx, doctorID)
	if err != nil {
		return nil, roster.ErrScheduleNotSet
	}

	now := s.now().In(s.loc)
	if err := CanBookNow(week, now); err != nil {
		return nil, err
	}

	if departmentID == nil {
		departmentID = doc.DepartmentID
	}
	date := now.Format(DateLayout)
	number, err := s.counter.NextNumber(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("assign token number: %w", err)
	}

	t := &Token{
		DoctorID:     doctorID,
		PatientID:    &patientID,
		HospitalID:   doc.HospitalID,
		DepartmentID: departmentID,
		TokenNumber:  number,
		Status:       StatusPending,
		BookedAt:     now,
		Date:         date,
	}
	if err := s.tokens.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// BookOffline issues a token for a walk-in at the front desk. Staff vouch
// for the patient, so the working-hours validator is skipped.
func (s *Service) BookOffline(ctx context.Context, doctorID, hospitalID uuid.UUID, patientName string, departmentID *uuid.UUID) (*Token, error) {
	if patientName == "" {
		return nil, fmt.Errorf("patient name is required")
	}
	doc, err := s.doctors.GetDoctor(ctx, doctorID)
	if err != nil {
		return nil, directory.ErrDoctorNotFound
	}
	if hospitalID == uuid.Nil {
		hospitalID = doc.HospitalID
	}
	if departmentID == nil {
		departmentID = doc.DepartmentID
	}

	now := s.now().In(s.loc)
	date := now.Format(DateLayout)
	number, err := s.counter.NextNumber(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("assign token number: %w", err)
	}

	t := &Token{
		DoctorID:     doctorID,
		PatientName:  &patientName,
		HospitalID:   hospitalID,
		DepartmentID: departmentID,
		IsOffline:    true,
		TokenNumber:  number,
		Status:       StatusPending,
		BookedAt:     now,
		Date:         date,
	}
	if err := s.tokens.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateStatus overwrites a token's status. Any canonical status may be
// set from any other; there is no transition table.
func (s *Service) UpdateStatus(ctx context.Context, tokenID uuid.UUID, status string) (*Token, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	t, err := s.tokens.GetByID(ctx, tokenID)
	if err != nil {
		return nil, ErrTokenNotFound
	}
	t.Status = status
	if err := s.tokens.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Complete marks a token consulted and done.
func (s *Service) Complete(ctx context.Context, tokenID uuid.UUID) (*Token, error) {
	return s.UpdateStatus(ctx, tokenID, StatusCompleted)
}

// Cancel lets the owning patient withdraw a pending token. The row is
// kept with status cancelled so the day's numbering stays intact.
func (s *Service) Cancel(ctx context.Context, tokenID, patientID uuid.UUID) (*Token, error) {
	t, err := s.tokens.GetByID(ctx, tokenID)
	if err != nil {
		return nil, ErrTokenNotFound
	}
	if t.PatientID == nil || *t.PatientID != patientID {
		return nil, ErrNotTokenOwner
	}
	if Terminal(t.Status) {
		return nil, ErrTokenFinished
	}
	t.Status = StatusCancelled
	if err := s.tokens.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ListForDoctorUser returns today's queue for the doctor behind a login
// account.
func (s *Service) ListForDoctorUser(ctx context.Context, userID uuid.UUID) ([]*Token, error) {
	doc, err := s.doctors.GetDoctorByUserID(ctx, userID)
	if err != nil {
		return nil, directory.ErrDoctorNotFound
	}
	return s.tokens.ListByDoctorAndDate(ctx, doc.ID, s.today())
}

// ListForDoctor returns today's queue for an explicit doctor id.
func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Token, error) {
	if _, err := s.doctors.GetDoctor(ctx, doctorID); err != nil {
		return nil, directory.ErrDoctorNotFound
	}
	return s.tokens.ListByDoctorAndDate(ctx, doctorID, s.today())
}

// ListForHospital returns today's queue across a hospital, for staff.
func (s *Service) ListForHospital(ctx context.Context, hospitalID uuid.UUID) ([]*Token, error) {
	return s.tokens.ListByHospitalAndDate(ctx, hospitalID, s.today())
}

// ListForPatient returns a patient's tokens across all dates, newest first.
func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Token, int, error) {
	return s.tokens.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) today() string {
	return s.now().In(s.loc).Format(DateLayout)
}
