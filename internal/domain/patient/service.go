package patient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound      = errors.New("patient not found")
	ErrProfileExists = errors.New("a patient profile already exists for this account")
	ErrNameRequired  = errors.New("first and last name are required")
	ErrInvalidAge    = errors.New("age must be between 0 and 150")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Age       int    `json:"age"`
}

func (in CreateInput) validate() error {
	if in.FirstName == "" || in.LastName == "" {
		return ErrNameRequired
	}
	if in.Age < 0 || in.Age > 150 {
		return ErrInvalidAge
	}
	return nil
}

// CreateForUser completes registration for a logged-in account. One
// profile per login: a second call for the same user fails.
func (s *Service) CreateForUser(ctx context.Context, userID uuid.UUID, in CreateInput) (*Patient, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByUserID(ctx, userID); err == nil {
		return nil, ErrProfileExists
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check existing profile: %w", err)
	}
	p := &Patient{
		PatientID: NewPatientID(s.now()),
		UserID:    &userID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Age:       in.Age,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	return p, nil
}

// CreateWalkIn registers a patient with no login account, used by front
// desk staff.
func (s *Service) CreateWalkIn(ctx context.Context, in CreateInput) (*Patient, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := &Patient{
		PatientID: NewPatientID(s.now()),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Age:       in.Age,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) GetByPatientID(ctx context.Context, patientID string) (*Patient, error) {
	p, err := s.repo.GetByPatientID(ctx, patientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetByUserID resolves the caller's own profile.
func (s *Service) GetByUserID(ctx context.Context, userID uuid.UUID) (*Patient, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in CreateInput) (*Patient, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.FirstName = in.FirstName
	p.LastName = in.LastName
	p.Age = in.Age
	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, nameFilter string, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, nameFilter, limit, offset)
}
