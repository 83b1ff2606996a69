package records

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuscare/campuscare/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const recordCols = `id, patient_id, doctor_id, diagnosis, treatment, created_at, updated_at`

func scanRecord(row pgx.Row) (*PatientRecord, error) {
	var rec PatientRecord
	err := row.Scan(&rec.ID, &rec.PatientID, &rec.DoctorID, &rec.Diagnosis, &rec.Treatment, &rec.CreatedAt, &rec.UpdatedAt)
	return &rec, err
}

func (r *repoPG) CreateRecord(ctx context.Context, rec *PatientRecord) error {
	rec.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient_records (id, patient_id, doctor_id, diagnosis, treatment)
		VALUES ($1,$2,$3,$4,$5)`,
		rec.ID, rec.PatientID, rec.DoctorID, rec.Diagnosis, rec.Treatment)
	return err
}

func (r *repoPG) GetRecord(ctx context.Context, id uuid.UUID) (*PatientRecord, error) {
	return scanRecord(r.conn(ctx).QueryRow(ctx, `SELECT `+recordCols+` FROM patient_records WHERE id = $1`, id))
}

func (r *repoPG) UpdateRecord(ctx context.Context, rec *PatientRecord) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient_records
		SET diagnosis = $2, treatment = $3, doctor_id = $4, updated_at = now()
		WHERE id = $1`,
		rec.ID, rec.Diagnosis, rec.Treatment, rec.DoctorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *repoPG) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient_records WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListRecordsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*PatientRecord, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM patient_records WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+recordCols+` FROM patient_records
		WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*PatientRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rec)
	}
	return items, total, rows.Err()
}

func (r *repoPG) CountDistinctPatients(ctx context.Context) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(DISTINCT patient_id) FROM patient_records`).Scan(&n)
	return n, err
}

func (r *repoPG) CreateDocument(ctx context.Context, d *Document) error {
	d.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient_documents (id, patient_id, file_name, content_type, size_bytes, uploaded_by)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		d.ID, d.PatientID, d.FileName, d.ContentType, d.SizeBytes, d.UploadedBy)
	return err
}

func (r *repoPG) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient_documents WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListDocumentsByPatient(ctx context.Context, patientID uuid.UUID) ([]*Document, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, patient_id, file_name, content_type, size_bytes, uploaded_by, uploaded_at
		FROM patient_documents WHERE patient_id = $1 ORDER BY uploaded_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.PatientID, &d.FileName, &d.ContentType, &d.SizeBytes, &d.UploadedBy, &d.UploadedAt); err != nil {
			return nil, err
		}
		items = append(items, &d)
	}
	return items, rows.Err()
}
