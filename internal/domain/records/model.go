package records

import (
	"time"

	"github.com/google/uuid"
)

// PatientRecord is a diagnosis/treatment entry. DoctorID is nil when no
// doctor has been assigned yet.
type PatientRecord struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	PatientID uuid.UUID  `db:"patient_id" json:"patient_id"`
	DoctorID  *uuid.UUID `db:"doctor_id" json:"doctor_id,omitempty"`
	Diagnosis string     `db:"diagnosis" json:"diagnosis"`
	Treatment *string    `db:"treatment" json:"treatment,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// Document is uploaded-file metadata. The file body lives outside this
// system; only the descriptor is stored.
type Document struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	FileName    string    `db:"file_name" json:"file_name"`
	ContentType string    `db:"content_type" json:"content_type"`
	SizeBytes   int64     `db:"size_bytes" json:"size_bytes"`
	UploadedBy  uuid.UUID `db:"uploaded_by" json:"uploaded_by"`
	UploadedAt  time.Time `db:"uploaded_at" json:"uploaded_at"`
}
