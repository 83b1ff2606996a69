package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository exposes the read-side count queries the dashboards are
// built from. All methods are side-effect free.
type Repository interface {
	CountPatients(ctx context.Context) (int, error)
	CountDoctors(ctx context.Context) (int, error)
	CountAppointments(ctx context.Context) (int, error)
	CountAppointmentsByStatus(ctx context.Context) (map[string]int, error)
	QueueDepth(ctx context.Context) (int, error)

	CountDoctorAppointmentsOn(ctx context.Context, doctorID uuid.UUID, date time.Time, status string) (int, error)
	CountDoctorAppointments(ctx context.Context, doctorID uuid.UUID, status string) (int, error)
	CountDoctorDistinctPatients(ctx context.Context, doctorID uuid.UUID) (int, error)

	CountPatientAppointments(ctx context.Context, patientID uuid.UUID, status string) (int, error)
	CountPatientUpcoming(ctx context.Context, patientID uuid.UUID, from time.Time) (int, error)
}
