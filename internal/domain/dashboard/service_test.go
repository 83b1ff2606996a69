package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	patients   int
	doctors    int
	byStatus   map[string]int
	queueDepth int

	todayConfirmed  int
	doctorPending   int
	distinctSeen    int
	patientUpcoming int
	patientByStatus map[string]int

	failCounts bool
}

func (m *mockRepo) CountPatients(_ context.Context) (int, error) {
	if m.failCounts {
		return 0, errors.New("query failed")
	}
	return m.patients, nil
}
func (m *mockRepo) CountDoctors(_ context.Context) (int, error) { return m.doctors, nil }
func (m *mockRepo) CountAppointments(_ context.Context) (int, error) {
	total := 0
	for _, n := range m.byStatus {
		total += n
	}
	return total, nil
}
func (m *mockRepo) CountAppointmentsByStatus(_ context.Context) (map[string]int, error) {
	return m.byStatus, nil
}
func (m *mockRepo) QueueDepth(_ context.Context) (int, error) { return m.queueDepth, nil }
func (m *mockRepo) CountDoctorAppointmentsOn(_ context.Context, _ uuid.UUID, _ time.Time, _ string) (int, error) {
	return m.todayConfirmed, nil
}
func (m *mockRepo) CountDoctorAppointments(_ context.Context, _ uuid.UUID, status string) (int, error) {
	if status == "pending" {
		return m.doctorPending, nil
	}
	return 0, nil
}
func (m *mockRepo) CountDoctorDistinctPatients(_ context.Context, _ uuid.UUID) (int, error) {
	return m.distinctSeen, nil
}
func (m *mockRepo) CountPatientAppointments(_ context.Context, _ uuid.UUID, status string) (int, error) {
	return m.patientByStatus[status], nil
}
func (m *mockRepo) CountPatientUpcoming(_ context.Context, _ uuid.UUID, _ time.Time) (int, error) {
	return m.patientUpcoming, nil
}

func TestAdminStats(t *testing.T) {
	repo := &mockRepo{
		patients:   40,
		doctors:    5,
		byStatus:   map[string]int{"pending": 3, "confirmed": 10, "completed": 25},
		queueDepth: 3,
	}
	svc := NewService(repo)
	st, err := svc.AdminStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.TotalAppointments != 38 {
		t.Errorf("expected 38 total appointments, got %d", st.TotalAppointments)
	}
	// Queue entries back pending appointments; pending must not be
	// inflated by the queue depth.
	if st.ByStatus["pending"] != 3 {
		t.Errorf("expected 3 pending, got %d", st.ByStatus["pending"])
	}
	if st.QueueDepth != 3 {
		t.Errorf("expected queue depth 3, got %d", st.QueueDepth)
	}
}

func TestAdminStats_QueryFailure(t *testing.T) {
	svc := NewService(&mockRepo{failCounts: true})
	if _, err := svc.AdminStats(context.Background()); err == nil {
		t.Fatal("expected error to surface")
	}
}

func TestDoctorStats(t *testing.T) {
	repo := &mockRepo{todayConfirmed: 4, doctorPending: 2, distinctSeen: 17}
	svc := NewService(repo)
	st, err := svc.DoctorStats(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.TodayConfirmed != 4 || st.PendingTriage != 2 || st.PatientsSeen != 17 {
		t.Errorf("unexpected stats: %+v", st)
	}
}

func TestPatientStats(t *testing.T) {
	repo := &mockRepo{
		patientUpcoming: 1,
		patientByStatus: map[string]int{"pending": 1, "completed": 6},
	}
	svc := NewService(repo)
	st, err := svc.PatientStats(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Upcoming != 1 || st.Pending != 1 || st.Completed != 6 {
		t.Errorf("unexpected stats: %+v", st)
	}
}
