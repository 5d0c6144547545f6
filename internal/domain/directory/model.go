package directory

import (
	"time"

	"github.com/google/uuid"
)

// Hospital maps to the hospitals table.
type Hospital struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   *string   `db:"address" json:"address,omitempty"`
	Lat       *float64  `db:"lat" json:"lat,omitempty"`
	Lng       *float64  `db:"lng" json:"lng,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Department maps to the departments table. A department always belongs to
// exactly one hospital.
type Department struct {
	ID          uuid.UUID `db:"id" json:"id"`
	HospitalID  uuid.UUID `db:"hospital_id" json:"hospital_id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Doctor maps to the doctors table. UserID links the doctor to a login
// account when one exists.
type Doctor struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	Name           string     `db:"name" json:"name"`
	HospitalID     uuid.UUID  `db:"hospital_id" json:"hospital_id"`
	DepartmentID   *uuid.UUID `db:"department_id" json:"department_id,omitempty"`
	UserID         *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
	Available      bool       `db:"available" json:"available"`
	Specialization *string    `db:"specialization" json:"specialization,omitempty"`
	Qualifications []string   `db:"qualifications" json:"qualifications,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}
