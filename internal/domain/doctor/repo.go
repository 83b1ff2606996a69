package doctor

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, specialty string, limit, offset int) ([]*Doctor, int, error)

	GetSchedule(ctx context.Context, doctorID uuid.UUID) (*Schedule, error)
	UpsertSchedule(ctx context.Context, s *Schedule) error

	CreateException(ctx context.Context, e *AvailabilityException) error
	DeleteException(ctx context.Context, id uuid.UUID) error
	ListExceptions(ctx context.Context, doctorID uuid.UUID) ([]*AvailabilityException, error)
	ListExceptionsCovering(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*AvailabilityException, error)
	DeleteExceptionsConcludedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
