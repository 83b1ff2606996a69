package doctor

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/campuscare/campuscare/pkg/schedtoken"
)

type mockRepo struct {
	doctors    map[uuid.UUID]*Doctor
	schedules  map[uuid.UUID]*Schedule
	exceptions map[uuid.UUID]*AvailabilityException
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		doctors:    make(map[uuid.UUID]*Doctor),
		schedules:  make(map[uuid.UUID]*Schedule),
		exceptions: make(map[uuid.UUID]*AvailabilityException),
	}
}

func (m *mockRepo) Create(_ context.Context, d *Doctor) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	m.doctors[d.ID] = d
	return nil
}
func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return d, nil
}
func (m *mockRepo) GetByUserID(_ context.Context, uid uuid.UUID) (*Doctor, error) {
	for _, d := range m.doctors {
		if d.UserID != nil && *d.UserID == uid {
			return d, nil
		}
	}
	return nil, pgx.ErrNoRows
}
func (m *mockRepo) Update(_ context.Context, d *Doctor) error {
	if _, ok := m.doctors[d.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.doctors[d.ID] = d
	return nil
}
func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error { delete(m.doctors, id); return nil }
func (m *mockRepo) List(_ context.Context, specialty string, limit, offset int) ([]*Doctor, int, error) {
	var r []*Doctor
	for _, d := range m.doctors {
		if specialty == "" || d.Specialty == specialty {
			r = append(r, d)
		}
	}
	return r, len(r), nil
}
func (m *mockRepo) GetSchedule(_ context.Context, doctorID uuid.UUID) (*Schedule, error) {
	s, ok := m.schedules[doctorID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return s, nil
}
func (m *mockRepo) UpsertSchedule(_ context.Context, s *Schedule) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.UpdatedAt = time.Now()
	m.schedules[s.DoctorID] = s
	return nil
}
func (m *mockRepo) CreateException(_ context.Context, e *AvailabilityException) error {
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	m.exceptions[e.ID] = e
	return nil
}
func (m *mockRepo) DeleteException(_ context.Context, id uuid.UUID) error {
	delete(m.exceptions, id)
	return nil
}
func (m *mockRepo) ListExceptions(_ context.Context, doctorID uuid.UUID) ([]*AvailabilityException, error) {
	var r []*AvailabilityException
	for _, e := range m.exceptions {
		if e.DoctorID == doctorID {
			r = append(r, e)
		}
	}
	return r, nil
}
func (m *mockRepo) ListExceptionsCovering(_ context.Context, doctorID uuid.UUID, date time.Time) ([]*AvailabilityException, error) {
	var r []*AvailabilityException
	for _, e := range m.exceptions {
		if e.DoctorID == doctorID && e.Covers(date) {
			r = append(r, e)
		}
	}
	return r, nil
}
func (m *mockRepo) DeleteExceptionsConcludedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for id, e := range m.exceptions {
		if e.ToDate != nil && e.ToDate.Before(cutoff) {
			delete(m.exceptions, id)
			n++
		}
	}
	return n, nil
}

func newBookableDoctor(t *testing.T, svc *Service) *Doctor {
	t.Helper()
	d, err := svc.Create(context.Background(), CreateInput{Name: "Dr. Marta Reyes", Specialty: "General Medicine"})
	if err != nil {
		t.Fatalf("create doctor: %v", err)
	}
	_, err = svc.SetSchedule(context.Background(), d.ID, ScheduleInput{
		Days:      []schedtoken.Day{schedtoken.Monday, schedtoken.Wednesday, schedtoken.Friday},
		StartHour: 9,
		EndHour:   17,
	})
	if err != nil {
		t.Fatalf("set schedule: %v", err)
	}
	return d
}

// 2026-09-07 is a Monday, 2026-09-08 a Tuesday.
var (
	aMonday  = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	aTuesday = time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
)

func TestIsBookable_ScheduledDayAndHour(t *testing.T) {
	svc := NewService(newMockRepo())
	d := newBookableDoctor(t, svc)
	ok, err := svc.IsBookable(context.Background(), d.ID, aMonday, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("Monday 10:00 should be bookable for an MWF 9-17 schedule")
	}
}

func TestIsBookable_OffDay(t *testing.T) {
	svc := NewService(newMockRepo())
	d := newBookableDoctor(t, svc)
	ok, err := svc.IsBookable(context.Background(), d.ID, aTuesday, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("Tuesday should not be bookable for an MWF schedule")
	}
}

func TestIsBookable_OutsideHours(t *testing.T) {
	svc := NewService(newMockRepo())
	d := newBookableDoctor(t, svc)
	for _, hour := range []int{8, 17, 18} {
		ok, err := svc.IsBookable(context.Background(), d.ID, aMonday, hour)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Errorf("hour %d should be outside the 9-17 window", hour)
		}
	}
}

func TestIsBookable_ExceptionCoversDate(t *testing.T) {
	svc := NewService(newMockRepo())
	d := newBookableDoctor(t, svc)
	to := aMonday.AddDate(0, 0, 3)
	if _, err := svc.AddException(context.Background(), d.ID, ExceptionInput{FromDate: aMonday.AddDate(0, 0, -1), ToDate: &to}); err != nil {
		t.Fatalf("add exception: %v", err)
	}
	ok, err := svc.IsBookable(context.Background(), d.ID, aMonday, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("a covering leave period must make the doctor unbookable")
	}
}

func TestIsBookable_OpenEndedException(t *testing.T) {
	svc := NewService(newMockRepo())
	d := newBookableDoctor(t, svc)
	if _, err := svc.AddException(context.Background(), d.ID, ExceptionInput{FromDate: aMonday.AddDate(0, 0, -7)}); err != nil {
		t.Fatalf("add exception: %v", err)
	}
	ok, _ := svc.IsBookable(context.Background(), d.ID, aMonday, 10)
	if ok {
		t.Error("open-ended leave must block all future dates")
	}
}

func TestIsBookable_NoSchedule(t *testing.T) {
	svc := NewService(newMockRepo())
	d, _ := svc.Create(context.Background(), CreateInput{Name: "Dr. No Schedule"})
	ok, err := svc.IsBookable(context.Background(), d.ID, aMonday, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("a doctor without a schedule must not be bookable")
	}
}

func TestExceptionStatus(t *testing.T) {
	today := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	day := func(offset int) time.Time { return today.AddDate(0, 0, offset) }
	ptr := func(t time.Time) *time.Time { return &t }

	cases := []struct {
		name string
		e    AvailabilityException
		want ExceptionStatus
	}{
		{"open-ended started", AvailabilityException{FromDate: day(-2)}, StatusIndefinite},
		{"open-ended future", AvailabilityException{FromDate: day(3)}, StatusUpcoming},
		{"today inside range", AvailabilityException{FromDate: day(-1), ToDate: ptr(day(1))}, StatusOngoing},
		{"range in future", AvailabilityException{FromDate: day(2), ToDate: ptr(day(4))}, StatusUpcoming},
		{"range in past", AvailabilityException{FromDate: day(-5), ToDate: ptr(day(-2))}, StatusConcluded},
		{"single-day today", AvailabilityException{FromDate: day(0), ToDate: ptr(day(0))}, StatusOngoing},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.e.Status(today); got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestSetSchedule_EncodesTokens(t *testing.T) {
	svc := NewService(newMockRepo())
	d, _ := svc.Create(context.Background(), CreateInput{Name: "Dr. Marta Reyes"})
	sched, err := svc.SetSchedule(context.Background(), d.ID, ScheduleInput{
		Days:      []schedtoken.Day{schedtoken.Thursday, schedtoken.Friday},
		StartHour: 8,
		EndHour:   12,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sched.Days != "ThF" {
		t.Errorf("expected days token ThF, got %q", sched.Days)
	}
	if sched.Hours != "8-12" {
		t.Errorf("expected hours token 8-12, got %q", sched.Hours)
	}
}

func TestSetSchedule_BadHours(t *testing.T) {
	svc := NewService(newMockRepo())
	d, _ := svc.Create(context.Background(), CreateInput{Name: "Dr. Marta Reyes"})
	if _, err := svc.SetSchedule(context.Background(), d.ID, ScheduleInput{
		Days:      []schedtoken.Day{schedtoken.Monday},
		StartHour: 17,
		EndHour:   8,
	}); err == nil {
		t.Fatal("expected error for inverted hour range")
	}
}

func TestAddException_BadRange(t *testing.T) {
	svc := NewService(newMockRepo())
	d, _ := svc.Create(context.Background(), CreateInput{Name: "Dr. Marta Reyes"})
	to := aMonday.AddDate(0, 0, -3)
	if _, err := svc.AddException(context.Background(), d.ID, ExceptionInput{FromDate: aMonday, ToDate: &to}); err != ErrBadDateRange {
		t.Fatalf("expected ErrBadDateRange, got %v", err)
	}
}
