package identity

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

// =========== User Repository ===========

type userRepoPG struct{ pool *pgxpool.Pool }

func NewUserRepoPG(pool *pgxpool.Pool) UserRepository { return &userRepoPG{pool: pool} }

func (r *userRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const userCols = `id, name, email, password_hash, role, hospital_id, department_id, created_at, updated_at`

func (r *userRepoPG) scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.HospitalID, &u.DepartmentID, &u.CreatedAt, &u.UpdatedAt)
	return &u, err
}

func (r *userRepoPG) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, hospital_id, department_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.HospitalID, u.DepartmentID)
	return err
}

func (r *userRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.scanUser(r.conn(ctx).QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

func (r *userRepoPG) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.scanUser(r.conn(ctx).QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email = $1`, email))
}

func (r *userRepoPG) Update(ctx context.Context, u *User) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE users SET name=$2, email=$3, password_hash=$4, role=$5,
			hospital_id=$6, department_id=$7, updated_at=NOW()
		WHERE id = $1`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.HospitalID, u.DepartmentID)
	return err
}

func (r *userRepoPG) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+userCols+` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, u)
	}
	return items, total, nil
}

// =========== OTP Repository ===========

type otpRepoPG struct{ pool *pgxpool.Pool }

func NewOTPRepoPG(pool *pgxpool.Pool) OTPRepository { return &otpRepoPG{pool: pool} }

func (r *otpRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *otpRepoPG) Create(ctx context.Context, o *OTPRequest) error {
	o.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO otp_requests (id, email, code, expires_at)
		VALUES ($1,$2,$3,$4)`,
		o.ID, o.Email, o.Code, o.ExpiresAt)
	return err
}

func (r *otpRepoPG) GetByEmailAndCode(ctx context.Context, email, code string) (*OTPRequest, error) {
	var o OTPRequest
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, email, code, expires_at, created_at
		FROM otp_requests WHERE email = $1 AND code = $2
		ORDER BY created_at DESC LIMIT 1`, email, code).
		Scan(&o.ID, &o.Email, &o.Code, &o.ExpiresAt, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *otpRepoPG) DeleteByEmail(ctx context.Context, email string) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM otp_requests WHERE email = $1`, email)
	return err
}
