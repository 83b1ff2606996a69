package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/campuscare/campuscare/internal/domain/patient"
)

var (
	ErrNotFound          = errors.New("appointment not found")
	ErrAlreadyTriaged    = errors.New("queue entry already triaged")
	ErrDoctorUnavailable = errors.New("doctor is not available at the requested time")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotOwner          = errors.New("appointment belongs to a different patient")
	ErrQueueMismatch     = errors.New("queue entry does not reference this appointment")
)

// TriageDecision is the staff verdict on a queued request.
type TriageDecision string

const (
	DecisionApprove TriageDecision = "approve"
	DecisionCancel  TriageDecision = "cancel"
)

// TxRunner runs fn inside a database transaction. Every repository call
// made with the context fn receives joins that transaction.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// PatientDirectory is the slice of the patient service the orchestrator
// needs.
type PatientDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

// AvailabilityChecker re-validates doctor availability at booking time.
type AvailabilityChecker interface {
	IsBookable(ctx context.Context, doctorID uuid.UUID, date time.Time, hour int) (bool, error)
}

// Service manages the lifecycle from booking request to triage decision.
// The queue entry and its appointment are written in one transaction, so
// a failure part-way leaves no orphaned state.
type Service struct {
	repo     Repository
	patients PatientDirectory
	doctors  AvailabilityChecker
	runTx    TxRunner
}

func NewService(repo Repository, patients PatientDirectory, doctors AvailabilityChecker, runTx TxRunner) *Service {
	return &Service{repo: repo, patients: patients, doctors: doctors, runTx: runTx}
}

type SubmitInput struct {
	PatientID uuid.UUID  `json:"patient_id"`
	DoctorID  *uuid.UUID `json:"doctor_id"`
	Date      time.Time  `json:"date"`
	Hour      int        `json:"hour"`
	Type      string     `json:"appointment_type"`
	Reason    string     `json:"reason"`
}

func (in SubmitInput) validate() error {
	switch {
	case in.PatientID == uuid.Nil:
		return errors.New("patient_id is required")
	case in.Date.IsZero():
		return errors.New("date is required")
	case in.Hour < 0 || in.Hour > 23:
		return errors.New("hour must be within [0,23]")
	case in.Type == "":
		return errors.New("appointment_type is required")
	case in.Reason == "":
		return errors.New("reason is required")
	}
	return nil
}

// Submit validates the booking request, then creates the queue entry and
// its pending appointment atomically. All validation runs before any
// write; availability is re-checked here rather than trusted from the
// client.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*QueueEntry, *Appointment, error) {
	if err := in.validate(); err != nil {
		return nil, nil, err
	}
	if _, err := s.patients.GetByID(ctx, in.PatientID); err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return nil, nil, fmt.Errorf("unknown patient %s", in.PatientID)
		}
		return nil, nil, fmt.Errorf("look up patient: %w", err)
	}
	if in.DoctorID != nil {
		ok, err := s.doctors.IsBookable(ctx, *in.DoctorID, in.Date, in.Hour)
		if err != nil {
			return nil, nil, fmt.Errorf("check availability: %w", err)
		}
		if !ok {
			return nil, nil, ErrDoctorUnavailable
		}
	}

	entry := &QueueEntry{Reason: in.Reason, Status: "waiting"}
	appt := &Appointment{
		PatientID: in.PatientID,
		DoctorID:  in.DoctorID,
		Date:      in.Date,
		Hour:      in.Hour,
		Type:      in.Type,
		Reason:    in.Reason,
		Status:    StatusPending,
	}
	err := s.runTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.CreateQueueEntry(txCtx, entry); err != nil {
			return fmt.Errorf("create queue entry: %w", err)
		}
		appt.QueueID = &entry.ID
		if err := s.repo.CreateAppointment(txCtx, appt); err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}
		if err := s.repo.SetQueueEntryAppointment(txCtx, entry.ID, appt.ID); err != nil {
			return fmt.Errorf("link queue entry: %w", err)
		}
		entry.AppointmentID = appt.ID
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return entry, appt, nil
}

// ListQueue returns the triage queue in FIFO order.
func (s *Service) ListQueue(ctx context.Context) ([]*QueueItem, error) {
	return s.repo.ListQueue(ctx)
}

// Triage applies the staff decision. The appointment status is updated
// strictly before the queue entry is deleted, both inside one
// transaction: if anything fails the entry survives and triage can be
// retried. A second triage of the same entry finds no row and returns
// ErrAlreadyTriaged.
func (s *Service) Triage(ctx context.Context, queueID, appointmentID uuid.UUID, decision TriageDecision) error {
	var status string
	switch decision {
	case DecisionApprove:
		status = StatusConfirmed
	case DecisionCancel:
		status = StatusCancelled
	default:
		return fmt.Errorf("unknown triage decision %q", decision)
	}
	return s.runTx(ctx, func(txCtx context.Context) error {
		entry, err := s.repo.GetQueueEntry(txCtx, queueID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrAlreadyTriaged
			}
			return fmt.Errorf("load queue entry: %w", err)
		}
		if entry.AppointmentID != appointmentID {
			return ErrQueueMismatch
		}
		if err := s.repo.UpdateAppointmentStatus(txCtx, appointmentID, status); err != nil {
			return fmt.Errorf("update appointment status: %w", err)
		}
		deleted, err := s.repo.DeleteQueueEntry(txCtx, queueID)
		if err != nil {
			return fmt.Errorf("delete queue entry: %w", err)
		}
		if !deleted {
			// Lost a race with a concurrent triage; roll back the
			// status update made above.
			return ErrAlreadyTriaged
		}
		return nil
	})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := s.repo.GetAppointment(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// Start moves a confirmed appointment to in-progress when the patient is
// called in.
func (s *Service) Start(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.transition(ctx, id, StatusConfirmed, StatusInProgress)
}

// Complete closes out an in-progress appointment.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.transition(ctx, id, StatusInProgress, StatusCompleted)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, from, to string) (*Appointment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != from {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, to)
	}
	if err := s.repo.UpdateAppointmentStatus(ctx, id, to); err != nil {
		return nil, err
	}
	a.Status = to
	return a, nil
}

// CancelOwn lets a patient withdraw their own pending or confirmed
// appointment. A pending cancellation also removes the queue entry so
// staff never triage a withdrawn request.
func (s *Service) CancelOwn(ctx context.Context, patientID, appointmentID uuid.UUID) (*Appointment, error) {
	a, err := s.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if a.PatientID != patientID {
		return nil, ErrNotOwner
	}
	if a.Status != StatusPending && a.Status != StatusConfirmed {
		return nil, fmt.Errorf("%w: cannot cancel a %s appointment", ErrInvalidTransition, a.Status)
	}
	wasPending := a.Status == StatusPending
	err = s.runTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.UpdateAppointmentStatus(txCtx, appointmentID, StatusCancelled); err != nil {
			return fmt.Errorf("update appointment status: %w", err)
		}
		if wasPending && a.QueueID != nil {
			if _, err := s.repo.DeleteQueueEntry(txCtx, *a.QueueID); err != nil {
				return fmt.Errorf("delete queue entry: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	a.Status = StatusCancelled
	return a, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByDoctor(ctx, doctorID, limit, offset)
}

func (s *Service) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByStatus(ctx, status, limit, offset)
}

// QueueDepth reports the number of requests awaiting triage.
func (s *Service) QueueDepth(ctx context.Context) (int, error) {
	return s.repo.QueueDepth(ctx)
}
