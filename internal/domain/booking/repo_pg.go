package booking

import (
	"context"

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

const appointmentCols = `id, patient_id, doctor_id, queue_id, date, hour, appointment_type, reason, status, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.QueueID, &a.Date, &a.Hour,
		&a.Type, &a.Reason, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *repoPG) CreateAppointment(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, queue_id, date, hour, appointment_type, reason, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		a.ID, a.PatientID, a.DoctorID, a.QueueID, a.Date, a.Hour, a.Type, a.Reason, a.Status)
	return err
}

func (r *repoPG) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+appointmentCols+` FROM appointments WHERE id = $1`, id))
}

func (r *repoPG) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx, `patient_id = $1`, patientID, limit, offset)
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx, `doctor_id = $1`, doctorID, limit, offset)
}

func (r *repoPG) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx, `status = $1`, status, limit, offset)
}

func (r *repoPG) list(ctx context.Context, where string, arg interface{}, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE `+where, arg).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+appointmentCols+` FROM appointments WHERE `+where+
			` ORDER BY date DESC, hour DESC LIMIT $2 OFFSET $3`, arg, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (r *repoPG) CreateQueueEntry(ctx context.Context, e *QueueEntry) error {
	e.ID = uuid.New()
	// appointment_id starts NULL and is back-filled in the same
	// transaction once the appointment row exists. queue_no is a
	// bigserial; RETURNING fixes the FIFO position.
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointment_queue (id, reason, status)
		VALUES ($1,$2,$3)
		RETURNING queue_no, created_at`,
		e.ID, e.Reason, e.Status).Scan(&e.QueueNo, &e.CreatedAt)
}

func (r *repoPG) SetQueueEntryAppointment(ctx context.Context, entryID, appointmentID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointment_queue SET appointment_id = $2 WHERE id = $1`, entryID, appointmentID)
	return err
}

func (r *repoPG) GetQueueEntry(ctx context.Context, id uuid.UUID) (*QueueEntry, error) {
	var e QueueEntry
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, queue_no, appointment_id, reason, status, created_at
		FROM appointment_queue WHERE id = $1`, id).
		Scan(&e.ID, &e.QueueNo, &e.AppointmentID, &e.Reason, &e.Status, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repoPG) DeleteQueueEntry(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted uuid.UUID
	err := r.conn(ctx).QueryRow(ctx, `
		DELETE FROM appointment_queue WHERE id = $1 RETURNING id`, id).Scan(&deleted)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *repoPG) ListQueue(ctx context.Context) ([]*QueueItem, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT q.id, q.queue_no, q.appointment_id, q.reason, q.status, q.created_at,
		       `+prefixedAppointmentCols+`,
		       p.first_name || ' ' || p.last_name, p.patient_id,
		       d.name
		FROM appointment_queue q
		JOIN appointments a ON a.id = q.appointment_id
		JOIN patients p ON p.id = a.patient_id
		LEFT JOIN doctors d ON d.id = a.doctor_id
		ORDER BY q.queue_no ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*QueueItem
	for rows.Next() {
		var it QueueItem
		err := rows.Scan(
			&it.Entry.ID, &it.Entry.QueueNo, &it.Entry.AppointmentID, &it.Entry.Reason, &it.Entry.Status, &it.Entry.CreatedAt,
			&it.Appointment.ID, &it.Appointment.PatientID, &it.Appointment.DoctorID, &it.Appointment.QueueID,
			&it.Appointment.Date, &it.Appointment.Hour, &it.Appointment.Type, &it.Appointment.Reason,
			&it.Appointment.Status, &it.Appointment.CreatedAt, &it.Appointment.UpdatedAt,
			&it.PatientName, &it.PatientNo,
			&it.DoctorName,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

const prefixedAppointmentCols = `a.id, a.patient_id, a.doctor_id, a.queue_id, a.date, a.hour, a.appointment_type, a.reason, a.status, a.created_at, a.updated_at`

func (r *repoPG) QueueDepth(ctx context.Context) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointment_queue`).Scan(&n)
	return n, err
}
