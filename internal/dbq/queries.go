package dbq

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const createUser = `
INSERT INTO warden_users (id, name, password_digest, salt, email, age)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, name, password_digest, salt, email, age, created_at, updated_at
`

type CreateUserParams struct {
	ID             uuid.UUID
	Name           string
	PasswordDigest []byte
	Salt           []byte
	Email          *string
	Age            *int32
}

func (q *Queries) CreateUser(ctx context.Context, db DBTX, arg CreateUserParams) (WardenUser, error) {
	row := db.QueryRow(ctx, createUser,
		arg.ID, arg.Name, arg.PasswordDigest, arg.Salt, arg.Email, arg.Age)

	var u WardenUser
	err := row.Scan(
		&u.ID, &u.Name, &u.PasswordDigest, &u.Salt,
		&u.Email, &u.Age, &u.CreatedAt, &u.UpdatedAt,
	)

	return u, err
}

const findUserByName = `
SELECT id, name, password_digest, salt, email, age, created_at, updated_at
FROM warden_users
WHERE name = $1
`

func (q *Queries) FindUserByName(ctx context.Context, db DBTX, name string) (WardenUser, error) {
	row := db.QueryRow(ctx, findUserByName, name)

	var u WardenUser
	err := row.Scan(
		&u.ID, &u.Name, &u.PasswordDigest, &u.Salt,
		&u.Email, &u.Age, &u.CreatedAt, &u.UpdatedAt,
	)

	return u, err
}

const createUserSession = `
INSERT INTO warden_user_sessions (id, user_id, user_name, expires_at)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, user_name, expires_at, created_at
`

type CreateUserSessionParams struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	UserName  string
	ExpiresAt time.Time
}

func (q *Queries) CreateUserSession(
	ctx context.Context,
	db DBTX,
	arg CreateUserSessionParams,
) (WardenUserSession, error) {
	row := db.QueryRow(ctx, createUserSession,
		arg.ID, arg.UserID, arg.UserName, arg.ExpiresAt)

	var s WardenUserSession
	err := row.Scan(&s.ID, &s.UserID, &s.UserName, &s.ExpiresAt, &s.CreatedAt)

	return s, err
}

const findActiveSessionByID = `
SELECT id, user_id, user_name, expires_at, created_at
FROM warden_user_sessions
WHERE id = $1 AND expires_at > now()
`

func (q *Queries) FindActiveSessionByID(
	ctx context.Context,
	db DBTX,
	id uuid.UUID,
) (WardenUserSession, error) {
	row := db.QueryRow(ctx, findActiveSessionByID, id)

	var s WardenUserSession
	err := row.Scan(&s.ID, &s.UserID, &s.UserName, &s.ExpiresAt, &s.CreatedAt)

	return s, err
}

const expireSessionByID = `
UPDATE warden_user_sessions
SET expires_at = now()
WHERE id = $1 AND expires_at > now()
RETURNING id
`

func (q *Queries) ExpireSessionByID(ctx context.Context, db DBTX, id uuid.UUID) (uuid.UUID, error) {
	row := db.QueryRow(ctx, expireSessionByID, id)

	var sessID uuid.UUID
	err := row.Scan(&sessID)

	return sessID, err
}
