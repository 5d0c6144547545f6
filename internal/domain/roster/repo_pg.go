package roster

import (
	"context"
	"time"

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

type scheduleRepoPG struct{ pool *pgxpool.Pool }

func NewScheduleRepoPG(pool *pgxpool.Pool) ScheduleRepository { return &scheduleRepoPG{pool: pool} }

func (r *scheduleRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *scheduleRepoPG) ReplaceWeekly(ctx context.Context, doctorID uuid.UUID, days []DaySchedule) error {
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		c := r.conn(ctx)
		if _, err := c.Exec(ctx, `DELETE FROM doctor_schedule_days WHERE doctor_id = $1`, doctorID); err != nil {
			return err
		}
		for _, d := range days {
			var start, end *string
			if d.IsAvailable {
				start, end = &d.StartTime, &d.EndTime
			}
			if _, err := c.Exec(ctx, `
				INSERT INTO doctor_schedule_days (doctor_id, day, start_time, end_time, is_available)
				VALUES ($1,$2,$3,$4,$5)`,
				doctorID, d.Day, start, end, d.IsAvailable); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *scheduleRepoPG) GetWeekly(ctx context.Context, doctorID uuid.UUID) (*WeeklySchedule, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT day, start_time, end_time, is_available, updated_at
		FROM doctor_schedule_days WHERE doctor_id = $1
		ORDER BY CASE day
			WHEN 'Sunday' THEN 0 WHEN 'Monday' THEN 1 WHEN 'Tuesday' THEN 2
			WHEN 'Wednesday' THEN 3 WHEN 'Thursday' THEN 4 WHEN 'Friday' THEN 5
			ELSE 6 END`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	w := &WeeklySchedule{DoctorID: doctorID}
	for rows.Next() {
		var d DaySchedule
		var start, end *string
		var updated time.Time
		if err := rows.Scan(&d.Day, &start, &end, &d.IsAvailable, &updated); err != nil {
			return nil, err
		}
		if start != nil {
			d.StartTime = *start
		}
		if end != nil {
			d.EndTime = *end
		}
		if updated.After(w.UpdatedAt) {
			w.UpdatedAt = updated
		}
		w.Days = append(w.Days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(w.Days) == 0 {
		return nil, pgx.ErrNoRows
	}
	return w, nil
}
