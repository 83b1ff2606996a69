package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDiagnosisRequired = errors.New("diagnosis is required")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type RecordInput struct {
	PatientID uuid.UUID  `json:"patient_id"`
	DoctorID  *uuid.UUID `json:"doctor_id"`
	Diagnosis string     `json:"diagnosis"`
	Treatment *string    `json:"treatment"`
}

func (s *Service) Create(ctx context.Context, in RecordInput) (*PatientRecord, error) {
	if in.PatientID == uuid.Nil {
		return nil, errors.New("patient_id is required")
	}
	if in.Diagnosis == "" {
		return nil, ErrDiagnosisRequired
	}
	rec := &PatientRecord{
		PatientID: in.PatientID,
		DoctorID:  in.DoctorID,
		Diagnosis: in.Diagnosis,
		Treatment: in.Treatment,
	}
	if err := s.repo.CreateRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("create record: %w", err)
	}
	return rec, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*PatientRecord, error) {
	rec, err := s.repo.GetRecord(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in RecordInput) (*PatientRecord, error) {
	if in.Diagnosis == "" {
		return nil, ErrDiagnosisRequired
	}
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.Diagnosis = in.Diagnosis
	rec.Treatment = in.Treatment
	rec.DoctorID = in.DoctorID
	if err := s.repo.UpdateRecord(ctx, rec); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteRecord(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*PatientRecord, int, error) {
	return s.repo.ListRecordsByPatient(ctx, patientID, limit, offset)
}

type DocumentInput struct {
	PatientID   uuid.UUID `json:"patient_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
}

func (s *Service) AddDocument(ctx context.Context, uploadedBy uuid.UUID, in DocumentInput) (*Document, error) {
	if in.PatientID == uuid.Nil {
		return nil, errors.New("patient_id is required")
	}
	if in.FileName == "" {
		return nil, errors.New("file_name is required")
	}
	d := &Document{
		PatientID:   in.PatientID,
		FileName:    in.FileName,
		ContentType: in.ContentType,
		SizeBytes:   in.SizeBytes,
		UploadedBy:  uploadedBy,
	}
	if err := s.repo.CreateDocument(ctx, d); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return d, nil
}

func (s *Service) RemoveDocument(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteDocument(ctx, id)
}

func (s *Service) ListDocuments(ctx context.Context, patientID uuid.UUID) ([]*Document, error) {
	return s.repo.ListDocumentsByPatient(ctx, patientID)
}
