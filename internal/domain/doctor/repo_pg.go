package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuscare/campuscare/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const doctorCols = `id, user_id, name, specialty, created_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.Specialty, &d.CreatedAt)
	return &d, err
}

func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	d.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO doctors (id, user_id, name, specialty) VALUES ($1,$2,$3,$4)`,
		d.ID, d.UserID, d.Name, d.Specialty)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return scanDoctor(r.conn(ctx).QueryRow(ctx, `SELECT `+doctorCols+` FROM doctors WHERE id = $1`, id))
}

func (r *repoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error) {
	return scanDoctor(r.conn(ctx).QueryRow(ctx, `SELECT `+doctorCols+` FROM doctors WHERE user_id = $1`, userID))
}

func (r *repoPG) Update(ctx context.Context, d *Doctor) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE doctors SET name = $2, specialty = $3 WHERE id = $1`,
		d.ID, d.Name, d.Specialty)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, specialty string, limit, offset int) ([]*Doctor, int, error) {
	where := ""
	args := []interface{}{}
	if specialty != "" {
		where = ` WHERE specialty ILIKE $1`
		args = append(args, specialty)
	}
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM doctors`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := fmt.Sprintf(`SELECT %s FROM doctors%s ORDER BY name ASC LIMIT $%d OFFSET $%d`,
		doctorCols, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}

func (r *repoPG) GetSchedule(ctx context.Context, doctorID uuid.UUID) (*Schedule, error) {
	var s Schedule
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, doctor_id, days, hours, updated_at
		FROM doctor_schedule WHERE doctor_id = $1`, doctorID).
		Scan(&s.ID, &s.DoctorID, &s.Days, &s.Hours, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repoPG) UpsertSchedule(ctx context.Context, s *Schedule) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO doctor_schedule (id, doctor_id, days, hours, updated_at)
		VALUES ($1,$2,$3,$4, now())
		ON CONFLICT (doctor_id)
		DO UPDATE SET days = EXCLUDED.days, hours = EXCLUDED.hours, updated_at = now()`,
		s.ID, s.DoctorID, s.Days, s.Hours)
	return err
}

const exceptionCols = `id, doctor_id, from_date, to_date, reason, created_at`

func scanException(row pgx.Row) (*AvailabilityException, error) {
	var e AvailabilityException
	err := row.Scan(&e.ID, &e.DoctorID, &e.FromDate, &e.ToDate, &e.Reason, &e.CreatedAt)
	return &e, err
}

func (r *repoPG) CreateException(ctx context.Context, e *AvailabilityException) error {
	e.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO doctor_availability (id, doctor_id, from_date, to_date, reason)
		VALUES ($1,$2,$3,$4,$5)`,
		e.ID, e.DoctorID, e.FromDate, e.ToDate, e.Reason)
	return err
}

func (r *repoPG) DeleteException(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM doctor_availability WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListExceptions(ctx context.Context, doctorID uuid.UUID) ([]*AvailabilityException, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+exceptionCols+` FROM doctor_availability
		WHERE doctor_id = $1 ORDER BY from_date DESC`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectExceptions(rows)
}

func (r *repoPG) ListExceptionsCovering(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*AvailabilityException, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+exceptionCols+` FROM doctor_availability
		WHERE doctor_id = $1 AND from_date <= $2 AND (to_date IS NULL OR to_date >= $2)`,
		doctorID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectExceptions(rows)
}

func (r *repoPG) DeleteExceptionsConcludedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		DELETE FROM doctor_availability WHERE to_date IS NOT NULL AND to_date < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func collectExceptions(rows pgx.Rows) ([]*AvailabilityException, error) {
	var items []*AvailabilityException
	for rows.Next() {
		e, err := scanException(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}
