package queue

import (
	"time"

	"github.com/google/uuid"
)

// Token statuses. Completed and cancelled are terminal.
const (
	StatusPending   = "pending"
	StatusCalled    = "called"
	StatusCompleted = "completed"
	StatusSkipped   = "skipped"
	StatusCancelled = "cancelled"
)

var validStatuses = map[string]bool{
	StatusPending: true, StatusCalled: true, StatusCompleted: true,
	StatusSkipped: true, StatusCancelled: true,
}

// ValidStatus reports whether s is one of the canonical token statuses.
func ValidStatus(s string) bool { return validStatuses[s] }

// Terminal reports whether a token in status s can no longer change.
func Terminal(s string) bool { return s == StatusCompleted || s == StatusCancelled }

// DateLayout is the queue date format, a calendar day in the clinic zone.
const DateLayout = "2006-01-02"

// Token maps to the tokens table. PatientID is null only for offline
// tokens, which carry the walk-in's name instead.
type Token struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	DoctorID     uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	PatientID    *uuid.UUID `db:"patient_id" json:"patient_id,omitempty"`
	PatientName  *string    `db:"patient_name" json:"patient_name,omitempty"`
	HospitalID   uuid.UUID  `db:"hospital_id" json:"hospital_id"`
	DepartmentID *uuid.UUID `db:"department_id" json:"department_id,omitempty"`
	IsOffline    bool       `db:"is_offline" json:"is_offline"`
	TokenNumber  int        `db:"token_number" json:"token_number"`
	Status       string     `db:"status" json:"status"`
	BookedAt     time.Time  `db:"booked_at" json:"booked_at"`
	Date         string     `db:"date" json:"date"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`

	// Display names filled in by list queries.
	DoctorName     string  `db:"doctor_name" json:"doctor_name,omitempty"`
	DepartmentName *string `db:"department_name" json:"department_name,omitempty"`
	PatientEmail   *string `db:"patient_email" json:"patient_email,omitempty"`
}
