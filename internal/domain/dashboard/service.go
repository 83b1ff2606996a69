package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// AdminStats is the clinic-wide summary. Pending counts distinct pending
// appointments; queue entries are not added on top since every entry has
// a backing pending appointment.
type AdminStats struct {
	TotalPatients     int            `json:"total_patients"`
	TotalDoctors      int            `json:"total_doctors"`
	TotalAppointments int            `json:"total_appointments"`
	ByStatus          map[string]int `json:"by_status"`
	QueueDepth        int            `json:"queue_depth"`
}

func (s *Service) AdminStats(ctx context.Context) (*AdminStats, error) {
	var (
		st  AdminStats
		err error
	)
	if st.TotalPatients, err = s.repo.CountPatients(ctx); err != nil {
		return nil, fmt.Errorf("count patients: %w", err)
	}
	if st.TotalDoctors, err = s.repo.CountDoctors(ctx); err != nil {
		return nil, fmt.Errorf("count doctors: %w", err)
	}
	if st.TotalAppointments, err = s.repo.CountAppointments(ctx); err != nil {
		return nil, fmt.Errorf("count appointments: %w", err)
	}
	if st.ByStatus, err = s.repo.CountAppointmentsByStatus(ctx); err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	if st.QueueDepth, err = s.repo.QueueDepth(ctx); err != nil {
		return nil, fmt.Errorf("queue depth: %w", err)
	}
	return &st, nil
}

type DoctorStats struct {
	TodayConfirmed int `json:"today_confirmed"`
	PendingTriage  int `json:"pending_triage"`
	PatientsSeen   int `json:"patients_seen"`
}

func (s *Service) DoctorStats(ctx context.Context, doctorID uuid.UUID) (*DoctorStats, error) {
	var (
		st  DoctorStats
		err error
	)
	today := truncateDate(s.now())
	if st.TodayConfirmed, err = s.repo.CountDoctorAppointmentsOn(ctx, doctorID, today, "confirmed"); err != nil {
		return nil, fmt.Errorf("count today's confirmed: %w", err)
	}
	if st.PendingTriage, err = s.repo.CountDoctorAppointments(ctx, doctorID, "pending"); err != nil {
		return nil, fmt.Errorf("count pending: %w", err)
	}
	if st.PatientsSeen, err = s.repo.CountDoctorDistinctPatients(ctx, doctorID); err != nil {
		return nil, fmt.Errorf("count patients seen: %w", err)
	}
	return &st, nil
}

type PatientStats struct {
	Upcoming  int `json:"upcoming"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}

func (s *Service) PatientStats(ctx context.Context, patientID uuid.UUID) (*PatientStats, error) {
	var (
		st  PatientStats
		err error
	)
	today := truncateDate(s.now())
	if st.Upcoming, err = s.repo.CountPatientUpcoming(ctx, patientID, today); err != nil {
		return nil, fmt.Errorf("count upcoming: %w", err)
	}
	if st.Pending, err = s.repo.CountPatientAppointments(ctx, patientID, "pending"); err != nil {
		return nil, fmt.Errorf("count pending: %w", err)
	}
	if st.Completed, err = s.repo.CountPatientAppointments(ctx, patientID, "completed"); err != nil {
		return nil, fmt.Errorf("count completed: %w", err)
	}
	return &st, nil
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
