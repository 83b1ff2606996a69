package records

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CreateRecord(ctx context.Context, r *PatientRecord) error
	GetRecord(ctx context.Context, id uuid.UUID) (*PatientRecord, error)
	UpdateRecord(ctx context.Context, r *PatientRecord) error
	DeleteRecord(ctx context.Context, id uuid.UUID) error
	ListRecordsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*PatientRecord, int, error)
	CountDistinctPatients(ctx context.Context) (int, error)

	CreateDocument(ctx context.Context, d *Document) error
	DeleteDocument(ctx context.Context, id uuid.UUID) error
	ListDocumentsByPatient(ctx context.Context, patientID uuid.UUID) ([]*Document, error)
}
