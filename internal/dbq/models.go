package dbq

import (
	"time"

	"github.com/google/uuid"
)

// WardenUser mirrors a row of the warden_users table.
type WardenUser struct {
	ID             uuid.UUID
	Name           string
	PasswordDigest []byte
	Salt           []byte
	Email          *string
	Age            *int32
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// WardenUserSession mirrors a row of the warden_user_sessions table.
type WardenUserSession struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	UserName  string
	ExpiresAt time.Time
	CreatedAt time.Time
}
