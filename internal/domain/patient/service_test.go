package patient

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type mockRepo struct{ store map[uuid.UUID]*Patient }

func newMockRepo() *mockRepo { return &mockRepo{store: make(map[uuid.UUID]*Patient)} }

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	m.store[p.ID] = p
	return nil
}
func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.store[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return p, nil
}
func (m *mockRepo) GetByPatientID(_ context.Context, pid string) (*Patient, error) {
	for _, p := range m.store {
		if p.PatientID == pid {
			return p, nil
		}
	}
	return nil, pgx.ErrNoRows
}
func (m *mockRepo) GetByUserID(_ context.Context, uid uuid.UUID) (*Patient, error) {
	for _, p := range m.store {
		if p.UserID != nil && *p.UserID == uid {
			return p, nil
		}
	}
	return nil, pgx.ErrNoRows
}
func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.store[p.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.store[p.ID] = p
	return nil
}
func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error { delete(m.store, id); return nil }
func (m *mockRepo) List(_ context.Context, name string, limit, offset int) ([]*Patient, int, error) {
	var r []*Patient
	for _, p := range m.store {
		if name == "" || strings.Contains(p.FirstName, name) || strings.Contains(p.LastName, name) {
			r = append(r, p)
		}
	}
	return r, len(r), nil
}

func TestNewPatientID(t *testing.T) {
	at := time.Date(2026, 8, 30, 14, 30, 55, 0, time.UTC)
	if got := NewPatientID(at); got != "P20260830143055" {
		t.Errorf("expected P20260830143055, got %q", got)
	}
}

func TestCreateForUser(t *testing.T) {
	svc := NewService(newMockRepo())
	uid := uuid.New()
	p, err := svc.CreateForUser(context.Background(), uid, CreateInput{FirstName: "Ana", LastName: "Gomez", Age: 21})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.UserID == nil || *p.UserID != uid {
		t.Error("expected profile linked to user")
	}
	if !strings.HasPrefix(p.PatientID, "P") {
		t.Errorf("expected generated patient number, got %q", p.PatientID)
	}
}

func TestCreateForUser_Duplicate(t *testing.T) {
	svc := NewService(newMockRepo())
	uid := uuid.New()
	if _, err := svc.CreateForUser(context.Background(), uid, CreateInput{FirstName: "Ana", LastName: "Gomez", Age: 21}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.CreateForUser(context.Background(), uid, CreateInput{FirstName: "Ana", LastName: "Gomez", Age: 21}); err != ErrProfileExists {
		t.Fatalf("expected ErrProfileExists, got %v", err)
	}
}

func TestCreateWalkIn(t *testing.T) {
	svc := NewService(newMockRepo())
	p, err := svc.CreateWalkIn(context.Background(), CreateInput{FirstName: "Ben", LastName: "Okafor", Age: 34})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.UserID != nil {
		t.Error("walk-in patient must not be linked to an account")
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newMockRepo())
	cases := []struct {
		name string
		in   CreateInput
		want error
	}{
		{"missing first name", CreateInput{LastName: "Gomez", Age: 21}, ErrNameRequired},
		{"missing last name", CreateInput{FirstName: "Ana", Age: 21}, ErrNameRequired},
		{"negative age", CreateInput{FirstName: "Ana", LastName: "Gomez", Age: -1}, ErrInvalidAge},
		{"absurd age", CreateInput{FirstName: "Ana", LastName: "Gomez", Age: 200}, ErrInvalidAge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateWalkIn(context.Background(), tc.in); err != tc.want {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	svc := NewService(newMockRepo())
	p, _ := svc.CreateWalkIn(context.Background(), CreateInput{FirstName: "Ben", LastName: "Okafor", Age: 34})
	updated, err := svc.Update(context.Background(), p.ID, CreateInput{FirstName: "Ben", LastName: "Okafor", Age: 35})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Age != 35 {
		t.Errorf("expected age 35, got %d", updated.Age)
	}
}

func TestGetByPatientID_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.GetByPatientID(context.Background(), "P00000000000000"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
