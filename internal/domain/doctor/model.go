package doctor

import (
	"time"

	"github.com/google/uuid"
)

type Doctor struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	UserID    *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
	Name      string     `db:"name" json:"name"`
	Specialty string     `db:"specialty" json:"specialty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// Schedule is a doctor's standing weekly availability, stored as the
// compact day-set and hour-range tokens (e.g. "MWF", "9-17").
type Schedule struct {
	ID        uuid.UUID `db:"id" json:"id"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
	Days      string    `db:"days" json:"days"`
	Hours     string    `db:"hours" json:"hours"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ExceptionStatus classifies an availability exception relative to a
// reference date.
type ExceptionStatus string

const (
	StatusIndefinite ExceptionStatus = "Indefinite"
	StatusUpcoming   ExceptionStatus = "Upcoming"
	StatusOngoing    ExceptionStatus = "Ongoing"
	StatusConcluded  ExceptionStatus = "Concluded"
)

// AvailabilityException is a leave period overriding the standing
// schedule. A nil ToDate means open-ended leave.
type AvailabilityException struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	DoctorID  uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	FromDate  time.Time  `db:"from_date" json:"from_date"`
	ToDate    *time.Time `db:"to_date" json:"to_date,omitempty"`
	Reason    *string    `db:"reason" json:"reason,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// Status classifies the exception against today: open-ended leaves are
// Indefinite once started, otherwise the range position decides.
func (e *AvailabilityException) Status(today time.Time) ExceptionStatus {
	today = truncateDate(today)
	from := truncateDate(e.FromDate)
	if today.Before(from) {
		return StatusUpcoming
	}
	if e.ToDate == nil {
		return StatusIndefinite
	}
	to := truncateDate(*e.ToDate)
	if today.After(to) {
		return StatusConcluded
	}
	return StatusOngoing
}

// Covers reports whether the exception blocks the given date.
func (e *AvailabilityException) Covers(date time.Time) bool {
	date = truncateDate(date)
	if date.Before(truncateDate(e.FromDate)) {
		return false
	}
	if e.ToDate == nil {
		return true
	}
	return !date.After(truncateDate(*e.ToDate))
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
