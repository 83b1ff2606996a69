package booking

import (
	"time"

	"github.com/google/uuid"
)

// Appointment status values. A pending appointment always has a live
// queue entry awaiting triage; the other states are post-triage.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusCancelled  = "cancelled"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

type Appointment struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	PatientID uuid.UUID  `db:"patient_id" json:"patient_id"`
	DoctorID  *uuid.UUID `db:"doctor_id" json:"doctor_id,omitempty"`
	QueueID   *uuid.UUID `db:"queue_id" json:"queue_id,omitempty"`
	Date      time.Time  `db:"date" json:"date"`
	Hour      int        `db:"hour" json:"hour"`
	Type      string     `db:"appointment_type" json:"appointment_type"`
	Reason    string     `db:"reason" json:"reason"`
	Status    string     `db:"status" json:"status"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// QueueEntry is a triage request paired 1:1 with a pending appointment.
// QueueNo is assigned by the database and fixes the FIFO triage order.
type QueueEntry struct {
	ID            uuid.UUID `db:"id" json:"id"`
	QueueNo       int64     `db:"queue_no" json:"queue_no"`
	AppointmentID uuid.UUID `db:"appointment_id" json:"appointment_id"`
	Reason        string    `db:"reason" json:"reason"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// QueueItem is a queue entry joined with its appointment and the names
// staff need to triage it.
type QueueItem struct {
	Entry       QueueEntry  `json:"entry"`
	Appointment Appointment `json:"appointment"`
	PatientName string      `json:"patient_name"`
	PatientNo   string      `json:"patient_no"`
	DoctorName  *string     `json:"doctor_name,omitempty"`
}
