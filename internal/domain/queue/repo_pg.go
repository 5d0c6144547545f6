package queue

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adarshprakasan/Hospiq/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// =========== Token Repository ===========

type tokenRepoPG struct{ pool *pgxpool.Pool }

func NewTokenRepoPG(pool *pgxpool.Pool) TokenRepository { return &tokenRepoPG{pool: pool} }

func (r *tokenRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const tokenCols = `t.id, t.doctor_id, t.patient_id, t.patient_name, t.hospital_id,
	t.department_id, t.is_offline, t.token_number, t.status, t.booked_at, t.date,
	t.created_at, t.updated_at, d.name, dep.name, u.email`

const tokenJoins = ` FROM tokens t
	JOIN doctors d ON d.id = t.doctor_id
	LEFT JOIN departments dep ON dep.id = t.department_id
	LEFT JOIN users u ON u.id = t.patient_id`

func (r *tokenRepoPG) scanToken(row pgx.Row) (*Token, error) {
	var t Token
	err := row.Scan(&t.ID, &t.DoctorID, &t.PatientID, &t.PatientName, &t.HospitalID,
		&t.DepartmentID, &t.IsOffline, &t.TokenNumber, &t.Status, &t.BookedAt, &t.Date,
		&t.CreatedAt, &t.UpdatedAt, &t.DoctorName, &t.DepartmentName, &t.PatientEmail)
	return &t, err
}

func (r *tokenRepoPG) Create(ctx context.Context, t *Token) error {
	t.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO tokens (id, doctor_id, patient_id, patient_name, hospital_id,
			department_id, is_offline, token_number, status, booked_at, date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		t.ID, t.DoctorID, t.PatientID, t.PatientName, t.HospitalID,
		t.DepartmentID, t.IsOffline, t.TokenNumber, t.Status, t.BookedAt, t.Date)
	return err
}

func (r *tokenRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Token, error) {
	return r.scanToken(r.conn(ctx).QueryRow(ctx,
		`SELECT `+tokenCols+tokenJoins+` WHERE t.id = $1`, id))
}

func (r *tokenRepoPG) Update(ctx context.Context, t *Token) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE tokens SET status=$2, updated_at=NOW() WHERE id = $1`,
		t.ID, t.Status)
	return err
}

func (r *tokenRepoPG) list(ctx context.Context, where string, args ...interface{}) ([]*Token, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+tokenCols+tokenJoins+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Token
	for rows.Next() {
		t, err := r.scanToken(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

func (r *tokenRepoPG) ListByDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date string) ([]*Token, error) {
	return r.list(ctx, ` WHERE t.doctor_id = $1 AND t.date = $2 ORDER BY t.token_number`, doctorID, date)
}

func (r *tokenRepoPG) ListByHospitalAndDate(ctx context.Context, hospitalID uuid.UUID, date string) ([]*Token, error) {
	return r.list(ctx, ` WHERE t.hospital_id = $1 AND t.date = $2 ORDER BY t.doctor_id, t.token_number`, hospitalID, date)
}

func (r *tokenRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Token, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM tokens WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	items, err := r.list(ctx, ` WHERE t.patient_id = $1 ORDER BY t.created_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// =========== Counter Repository ===========

type counterRepoPG struct{ pool *pgxpool.Pool }

func NewCounterRepoPG(pool *pgxpool.Pool) CounterRepository { return &counterRepoPG{pool: pool} }

func (r *counterRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// NextNumber relies on the upsert running atomically inside Postgres, so
// two concurrent bookings for the same doctor and day get distinct numbers.
func (r *counterRepoPG) NextNumber(ctx context.Context, doctorID uuid.UUID, date string) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO token_counters (doctor_id, date, last_number)
		VALUES ($1, $2, 1)
		ON CONFLICT (doctor_id, date)
		DO UPDATE SET last_number = token_counters.last_number + 1
		RETURNING last_number`, doctorID, date).Scan(&n)
	return n, err
}
