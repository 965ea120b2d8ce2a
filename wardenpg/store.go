// Package wardenpg implements the persistence collaborators on PostgreSQL
// via pgx.
package wardenpg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.inout.gg/foundations/debug"
	"go.inout.gg/foundations/sqldb"

	"go.avresk.dev/warden"
	"go.avresk.dev/warden/internal/dbq"
	"go.avresk.dev/warden/internal/uuidv7"
	"go.avresk.dev/warden/wardenpassword"
)

var _ wardenpassword.UserStore = (*UserStore)(nil)

// UserStore reads and writes user records by name.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	debug.Assert(pool != nil, "pool must be set")

	return &UserStore{pool: pool}
}

func (s *UserStore) FindUserByName(
	ctx context.Context,
	name string,
) (*wardenpassword.Credential, error) {
	row, err := dbq.New().FindUserByName(ctx, s.pool, name)
	if err != nil {
		if sqldb.IsNotFoundError(err) {
			return nil, warden.ErrUserNotFound
		}

		return nil, fmt.Errorf("warden/pg: failed to find user: %w", err)
	}

	return &wardenpassword.Credential{
		User:           userFromRow(row),
		PasswordDigest: row.PasswordDigest,
		Salt:           row.Salt,
	}, nil
}

func (s *UserStore) CreateUser(
	ctx context.Context,
	params wardenpassword.CreateUserParams,
) (*warden.User, error) {
	var email *string
	if params.Email != "" {
		email = &params.Email
	}

	var age *int32
	if params.Age != 0 {
		v := int32(params.Age)
		age = &v
	}

	row, err := dbq.New().CreateUser(ctx, s.pool, dbq.CreateUserParams{
		ID:             uuidv7.Must(),
		Name:           params.Name,
		PasswordDigest: params.PasswordDigest,
		Salt:           params.Salt,
		Email:          email,
		Age:            age,
	})
	if err != nil {
		if sqldb.IsUniqueViolationError(err) {
			return nil, wardenpassword.ErrNameTaken
		}

		return nil, fmt.Errorf("warden/pg: failed to create user: %w", err)
	}

	user := userFromRow(row)

	return &user, nil
}

func userFromRow(row dbq.WardenUser) warden.User {
	user := warden.User{
		ID:   row.ID,
		Name: row.Name,
	}

	if row.Email != nil {
		user.Email = *row.Email
	}

	if row.Age != nil {
		user.Age = int(*row.Age)
	}

	return user
}
