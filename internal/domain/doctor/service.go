package doctor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/campuscare/campuscare/pkg/schedtoken"
)

var (
	ErrNotFound     = errors.New("doctor not found")
	ErrNoSchedule   = errors.New("doctor has no schedule")
	ErrNameRequired = errors.New("doctor name is required")
	ErrBadDateRange = errors.New("to_date must not be before from_date")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	UserID    *uuid.UUID `json:"user_id"`
	Name      string     `json:"name"`
	Specialty string     `json:"specialty"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Doctor, error) {
	if in.Name == "" {
		return nil, ErrNameRequired
	}
	d := &Doctor{UserID: in.UserID, Name: in.Name, Specialty: in.Specialty}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create doctor: %w", err)
	}
	return d, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// GetByUserID resolves the doctor's own row from their login account.
func (s *Service) GetByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error) {
	d, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in CreateInput) (*Doctor, error) {
	if in.Name == "" {
		return nil, ErrNameRequired
	}
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Name = in.Name
	d.Specialty = in.Specialty
	if err := s.repo.Update(ctx, d); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, specialty string, limit, offset int) ([]*Doctor, int, error) {
	return s.repo.List(ctx, specialty, limit, offset)
}

// ScheduleInput carries the decoded form of a weekly schedule; the
// service encodes it into the stored tokens.
type ScheduleInput struct {
	Days      []schedtoken.Day `json:"days"`
	StartHour int              `json:"start_hour"`
	EndHour   int              `json:"end_hour"`
}

func (s *Service) SetSchedule(ctx context.Context, doctorID uuid.UUID, in ScheduleInput) (*Schedule, error) {
	if _, err := s.GetByID(ctx, doctorID); err != nil {
		return nil, err
	}
	if len(in.Days) == 0 {
		return nil, errors.New("at least one working day is required")
	}
	hours := schedtoken.EncodeTimeRange(in.StartHour, in.EndHour)
	if _, _, err := schedtoken.DecodeTimeRange(hours); err != nil {
		return nil, err
	}
	sched := &Schedule{
		DoctorID: doctorID,
		Days:     schedtoken.EncodeDays(in.Days),
		Hours:    hours,
	}
	if err := s.repo.UpsertSchedule(ctx, sched); err != nil {
		return nil, fmt.Errorf("save schedule: %w", err)
	}
	return sched, nil
}

func (s *Service) GetSchedule(ctx context.Context, doctorID uuid.UUID) (*Schedule, error) {
	sched, err := s.repo.GetSchedule(ctx, doctorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoSchedule
		}
		return nil, err
	}
	return sched, nil
}

type ExceptionInput struct {
	FromDate time.Time  `json:"from_date"`
	ToDate   *time.Time `json:"to_date"`
	Reason   *string    `json:"reason"`
}

func (s *Service) AddException(ctx context.Context, doctorID uuid.UUID, in ExceptionInput) (*AvailabilityException, error) {
	if _, err := s.GetByID(ctx, doctorID); err != nil {
		return nil, err
	}
	if in.FromDate.IsZero() {
		return nil, errors.New("from_date is required")
	}
	if in.ToDate != nil && in.ToDate.Before(in.FromDate) {
		return nil, ErrBadDateRange
	}
	e := &AvailabilityException{
		DoctorID: doctorID,
		FromDate: in.FromDate,
		ToDate:   in.ToDate,
		Reason:   in.Reason,
	}
	if err := s.repo.CreateException(ctx, e); err != nil {
		return nil, fmt.Errorf("create exception: %w", err)
	}
	return e, nil
}

func (s *Service) RemoveException(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteException(ctx, id)
}

func (s *Service) ListExceptions(ctx context.Context, doctorID uuid.UUID) ([]*AvailabilityException, error) {
	return s.repo.ListExceptions(ctx, doctorID)
}

// IsBookable decides whether the doctor can take a booking at the given
// date and hour. All three conditions must hold: the weekday is in the
// schedule's day set, the hour is inside [start, end), and no leave
// period covers the date. A doctor without a schedule is never bookable.
func (s *Service) IsBookable(ctx context.Context, doctorID uuid.UUID, date time.Time, hour int) (bool, error) {
	sched, err := s.repo.GetSchedule(ctx, doctorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("load schedule: %w", err)
	}
	worksDay, err := schedtoken.ContainsWeekday(sched.Days, date.Weekday())
	if err != nil {
		return false, fmt.Errorf("decode schedule days %q: %w", sched.Days, err)
	}
	if !worksDay {
		return false, nil
	}
	start, end, err := schedtoken.DecodeTimeRange(sched.Hours)
	if err != nil {
		return false, fmt.Errorf("decode schedule hours %q: %w", sched.Hours, err)
	}
	if hour < start || hour >= end {
		return false, nil
	}
	covering, err := s.repo.ListExceptionsCovering(ctx, doctorID, date)
	if err != nil {
		return false, fmt.Errorf("check availability exceptions: %w", err)
	}
	return len(covering) == 0, nil
}
