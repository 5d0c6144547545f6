package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrHospitalNotFound   = errors.New("hospital not found")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrDoctorNotFound     = errors.New("doctor not found")
)

type Service struct {
	hospitals   HospitalRepository
	departments DepartmentRepository
	doctors     DoctorRepository
}

func NewService(hospitals HospitalRepository, departments DepartmentRepository, doctors DoctorRepository) *Service {
	return &Service{hospitals: hospitals, departments: departments, doctors: doctors}
}

// -- Hospital --

func (s *Service) CreateHospital(ctx context.Context, h *Hospital) error {
	if h.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.hospitals.Create(ctx, h)
}

func (s *Service) GetHospital(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	h, err := s.hospitals.GetByID(ctx, id)
	if err != nil {
		return nil, ErrHospitalNotFound
	}
	return h, nil
}

func (s *Service) UpdateHospital(ctx context.Context, h *Hospital) error {
	if _, err := s.hospitals.GetByID(ctx, h.ID); err != nil {
		return ErrHospitalNotFound
	}
	return s.hospitals.Update(ctx, h)
}

func (s *Service) DeleteHospital(ctx context.Context, id uuid.UUID) error {
	if _, err := s.hospitals.GetByID(ctx, id); err != nil {
		return ErrHospitalNotFound
	}
	return s.hospitals.Delete(ctx, id)
}

func (s *Service) ListHospitals(ctx context.Context, limit, offset int) ([]*Hospital, int, error) {
	return s.hospitals.List(ctx, limit, offset)
}

// -- Department --

func (s *Service) CreateDepartment(ctx context.Context, d *Department) error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := s.hospitals.GetByID(ctx, d.HospitalID); err != nil {
		return ErrHospitalNotFound
	}
	return s.departments.Create(ctx, d)
}

func (s *Service) GetDepartment(ctx context.Context, id uuid.UUID) (*Department, error) {
	d, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return nil, ErrDepartmentNotFound
	}
	return d, nil
}

func (s *Service) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	if _, err := s.departments.GetByID(ctx, id); err != nil {
		return ErrDepartmentNotFound
	}
	return s.departments.Delete(ctx, id)
}

func (s *Service) ListDepartments(ctx context.Context, hospitalID uuid.UUID) ([]*Department, error) {
	if _, err := s.hospitals.GetByID(ctx, hospitalID); err != nil {
		return nil, ErrHospitalNotFound
	}
	return s.departments.ListByHospital(ctx, hospitalID)
}

// -- Doctor --

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := s.hospitals.GetByID(ctx, d.HospitalID); err != nil {
		return ErrHospitalNotFound
	}
	if d.DepartmentID != nil {
		dep, err := s.departments.GetByID(ctx, *d.DepartmentID)
		if err != nil {
			return ErrDepartmentNotFound
		}
		if dep.HospitalID != d.HospitalID {
			return fmt.Errorf("department belongs to another hospital")
		}
	}
	d.Available = true
	return s.doctors.Create(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return nil, ErrDoctorNotFound
	}
	return d, nil
}

// GetDoctorByUserID resolves the doctor record behind a login account.
func (s *Service) GetDoctorByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error) {
	d, err := s.doctors.GetByUserID(ctx, userID)
	if err != nil {
		return nil, ErrDoctorNotFound
	}
	return d, nil
}

func (s *Service) SetDoctorAvailability(ctx context.Context, id uuid.UUID, available bool) (*Doctor, error) {
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return nil, ErrDoctorNotFound
	}
	d.Available = available
	if err := s.doctors.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) ListDoctors(ctx context.Context, hospitalID uuid.UUID, departmentID *uuid.UUID, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.ListByHospital(ctx, hospitalID, departmentID, limit, offset)
}
