package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) count(ctx context.Context, query string, args ...interface{}) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}

func (r *repoPG) CountPatients(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM patients`)
}

func (r *repoPG) CountDoctors(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM doctors`)
}

func (r *repoPG) CountAppointments(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM appointments`)
}

func (r *repoPG) CountAppointmentsByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM appointments GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}

func (r *repoPG) QueueDepth(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM appointment_queue`)
}

func (r *repoPG) CountDoctorAppointmentsOn(ctx context.Context, doctorID uuid.UUID, date time.Time, status string) (int, error) {
	return r.count(ctx, `
		SELECT COUNT(*) FROM appointments
		WHERE doctor_id = $1 AND date = $2 AND status = $3`, doctorID, date, status)
}

func (r *repoPG) CountDoctorAppointments(ctx context.Context, doctorID uuid.UUID, status string) (int, error) {
	return r.count(ctx, `
		SELECT COUNT(*) FROM appointments WHERE doctor_id = $1 AND status = $2`, doctorID, status)
}

func (r *repoPG) CountDoctorDistinctPatients(ctx context.Context, doctorID uuid.UUID) (int, error) {
	return r.count(ctx, `
		SELECT COUNT(DISTINCT patient_id) FROM appointments
		WHERE doctor_id = $1 AND status = 'completed'`, doctorID)
}

func (r *repoPG) CountPatientAppointments(ctx context.Context, patientID uuid.UUID, status string) (int, error) {
	return r.count(ctx, `
		SELECT COUNT(*) FROM appointments WHERE patient_id = $1 AND status = $2`, patientID, status)
}

func (r *repoPG) CountPatientUpcoming(ctx context.Context, patientID uuid.UUID, from time.Time) (int, error) {
	return r.count(ctx, `
		SELECT COUNT(*) FROM appointments
		WHERE patient_id = $1 AND status = 'confirmed' AND date >= $2`, patientID, from)
}
