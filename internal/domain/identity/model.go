package identity

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin  = "admin"
	RoleDoctor = "doctor"
	RoleUser   = "user"
)

var validRoles = map[string]bool{
	RoleAdmin: true, RoleDoctor: true, RoleUser: true,
}

// User maps to the users table. Username and phone are unique when
// present but both nullable. Role is immutable after creation.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Username     *string   `db:"username" json:"username,omitempty"`
	Role         string    `db:"role" json:"role"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	PasswordHash *string   `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
