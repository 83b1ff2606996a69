package patient

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Patient is a clinic patient profile. UserID links the profile to a
// login account and is unique when set; walk-in patients registered at
// the front desk have no account and a nil UserID.
type Patient struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	PatientID string     `db:"patient_id" json:"patient_id"`
	UserID    *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
	FirstName string     `db:"first_name" json:"first_name"`
	LastName  string     `db:"last_name" json:"last_name"`
	Age       int        `db:"age" json:"age"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// NewPatientID derives a human-readable patient number from the
// registration instant. A unique constraint on the column catches the
// rare same-second collision.
func NewPatientID(now time.Time) string {
	return fmt.Sprintf("P%s", now.UTC().Format("20060102150405"))
}
