package booking

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CreateAppointment(ctx context.Context, a *Appointment) error
	GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status string) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Appointment, int, error)

	CreateQueueEntry(ctx context.Context, e *QueueEntry) error
	SetQueueEntryAppointment(ctx context.Context, entryID, appointmentID uuid.UUID) error
	GetQueueEntry(ctx context.Context, id uuid.UUID) (*QueueEntry, error)
	// DeleteQueueEntry reports whether a row was actually removed, so a
	// racing second triage can be detected.
	DeleteQueueEntry(ctx context.Context, id uuid.UUID) (bool, error)
	ListQueue(ctx context.Context) ([]*QueueItem, error)
	QueueDepth(ctx context.Context) (int, error)
}
