package records

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type mockRepo struct {
	records   map[uuid.UUID]*PatientRecord
	documents map[uuid.UUID]*Document
}

func newMockRepo() *mockRepo {
	return &mockRepo{records: make(map[uuid.UUID]*PatientRecord), documents: make(map[uuid.UUID]*Document)}
}

func (m *mockRepo) CreateRecord(_ context.Context, r *PatientRecord) error {
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	m.records[r.ID] = r
	return nil
}
func (m *mockRepo) GetRecord(_ context.Context, id uuid.UUID) (*PatientRecord, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r, nil
}
func (m *mockRepo) UpdateRecord(_ context.Context, r *PatientRecord) error {
	if _, ok := m.records[r.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.records[r.ID] = r
	return nil
}
func (m *mockRepo) DeleteRecord(_ context.Context, id uuid.UUID) error {
	delete(m.records, id)
	return nil
}
func (m *mockRepo) ListRecordsByPatient(_ context.Context, pid uuid.UUID, limit, offset int) ([]*PatientRecord, int, error) {
	var r []*PatientRecord
	for _, rec := range m.records {
		if rec.PatientID == pid {
			r = append(r, rec)
		}
	}
	return r, len(r), nil
}
func (m *mockRepo) CountDistinctPatients(_ context.Context) (int, error) {
	seen := make(map[uuid.UUID]bool)
	for _, rec := range m.records {
		seen[rec.PatientID] = true
	}
	return len(seen), nil
}
func (m *mockRepo) CreateDocument(_ context.Context, d *Document) error {
	d.ID = uuid.New()
	d.UploadedAt = time.Now()
	m.documents[d.ID] = d
	return nil
}
func (m *mockRepo) DeleteDocument(_ context.Context, id uuid.UUID) error {
	delete(m.documents, id)
	return nil
}
func (m *mockRepo) ListDocumentsByPatient(_ context.Context, pid uuid.UUID) ([]*Document, error) {
	var r []*Document
	for _, d := range m.documents {
		if d.PatientID == pid {
			r = append(r, d)
		}
	}
	return r, nil
}

func TestCreateRecord(t *testing.T) {
	svc := NewService(newMockRepo())
	rec, err := svc.Create(context.Background(), RecordInput{PatientID: uuid.New(), Diagnosis: "seasonal allergy"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.DoctorID != nil {
		t.Error("doctor should default to unassigned")
	}
}

func TestCreateRecord_MissingDiagnosis(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.Create(context.Background(), RecordInput{PatientID: uuid.New()}); err != ErrDiagnosisRequired {
		t.Fatalf("expected ErrDiagnosisRequired, got %v", err)
	}
}

func TestUpdateRecord_AssignDoctor(t *testing.T) {
	svc := NewService(newMockRepo())
	rec, _ := svc.Create(context.Background(), RecordInput{PatientID: uuid.New(), Diagnosis: "seasonal allergy"})
	did := uuid.New()
	treatment := "antihistamines"
	updated, err := svc.Update(context.Background(), rec.ID, RecordInput{Diagnosis: "seasonal allergy", Treatment: &treatment, DoctorID: &did})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.DoctorID == nil || *updated.DoctorID != did {
		t.Error("expected doctor assignment to persist")
	}
	if updated.Treatment == nil || *updated.Treatment != treatment {
		t.Error("expected treatment to persist")
	}
}

func TestGetRecord_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.Get(context.Background(), uuid.New()); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddDocument(t *testing.T) {
	svc := NewService(newMockRepo())
	uploader := uuid.New()
	d, err := svc.AddDocument(context.Background(), uploader, DocumentInput{
		PatientID:   uuid.New(),
		FileName:    "xray-2026-08.pdf",
		ContentType: "application/pdf",
		SizeBytes:   204800,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.UploadedBy != uploader {
		t.Error("expected uploader to be recorded")
	}
}

func TestAddDocument_MissingFileName(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.AddDocument(context.Background(), uuid.New(), DocumentInput{PatientID: uuid.New()}); err == nil {
		t.Fatal("expected error")
	}
}
