package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shahyash1136/budgetAPI/internal/domain"
)

type UsersStore struct {
	pool *pgxpool.Pool
}

func NewUsersStore(pool *pgxpool.Pool) *UsersStore {
	return &UsersStore{pool: pool}
}

func (s *UsersStore) CreateUser(ctx context.Context, firstName, lastName, username, email, passwordHash string) (domain.User, error) {
	const q = `
		INSERT INTO users (first_name, last_name, username, email, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	ctx, cancel := queryCtx(ctx)
	defer cancel()

	u, err := scanUser(s.pool.QueryRow(ctx, q, firstName, lastName, username, email, passwordHash))
	if err != nil {
		return domain.User{}, mapUserWriteError(err)
	}
	return u, nil
}

func (s *UsersStore) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR lower(email) = lower($2))`

	ctx, cancel := queryCtx(ctx)
	defer cancel()

	var exists bool
	if err := s.pool.QueryRow(ctx, q, username, email).Scan(&exists); err != nil {
		return false, storeErr("check user exists", err)
	}
	return exists, nil
}

func (s *UsersStore) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	ctx, cancel := queryCtx(ctx)
	defer cancel()

	u, err := scanUser(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, storeErr("get user by id", err)
	}
	return u, nil
}

func (s *UsersStore) GetUserByEmail(ctx context.Context, email string) (domain.UserWithCredentials, error) {
	const q = `SELECT ` + userColumns + `, password_hash FROM users WHERE lower(email) = lower($1) LIMIT 1`

	ctx, cancel := queryCtx(ctx)
	defer cancel()

	u, err := scanUserWithCredentials(s.pool.QueryRow(ctx, q, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserWithCredentials{}, domain.ErrNotFound
		}
		return domain.UserWithCredentials{}, storeErr("get user by email", err)
	}
	return u, nil
}

func (s *UsersStore) GetCredentialsByID(ctx context.Context, id string) (domain.UserWithCredentials, error) {
	const q = `SELECT ` + userColumns + `, password_hash FROM users WHERE id = $1`

	ctx, cancel := queryCtx(ctx)
	defer cancel()

	u, err := scanUserWithCredentials(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserWithCredentials{}, domain.ErrNotFound
		}
		return domain.UserWithCredentials{}, storeErr("get credentials by id", err)
	}
	return u, nil
}

func (s *UsersStore) UpdatePassword(ctx context.Context, id, passwordHash string, when time.Time) (domain.User, error) {
	const q = `
		UPDATE users
		SET password_hash = $2, password_changed_at = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	ctx, cancel := queryCtx(ctx)
	defer cancel()

	u, err := scanUser(s.pool.QueryRow(ctx, q, id, passwordHash, when))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, storeErr("update password", err)
	}
	return u, nil
}

func (s *UsersStore) SetResetToken(ctx context.Context, id, digest string, expires time.Time) error {
	const q = `
		UPDATE users
		SET password_reset_token = $2, password_reset_expires = $3, updated_at = now()
		WHERE id = $1
	`

	ctx, cancel := queryCtx(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, q, id, digest, expires)
	if err != nil {
		return storeErr("set reset token", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *UsersStore) GetUserByResetDigest(ctx context.Context, digest string, now time.Time) (domain.UserWithCredentials, error) {
	const q = `
		SELECT ` + userColumns + `, password_hash
		FROM users
		WHERE password_reset_token = $1 AND password_reset_expires > $2
		LIMIT 1
	`

	ctx, cancel := queryCtx(ctx)
	defer cancel()

	u, err := scanUserWithCredentials(s.pool.QueryRow(ctx, q, digest, now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserWithCredentials{}, domain.ErrNotFound
		}
		return domain.UserWithCredentials{}, storeErr("get user by reset digest", err)
	}
	return u, nil
}

// ResetPassword updates the hash and clears the reset columns in one statement
// so a redeemed token can never be redeemed twice.
func (s *UsersStore) ResetPassword(ctx context.Context, id, passwordHash string, when time.Time) (domain.User, error) {
	const q = `
		UPDATE users
		SET password_hash = $2,
		    password_changed_at = $3,
		    password_reset_token = NULL,
		    password_reset_expires = NULL,
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	ctx, cancel := queryCtx(ctx)
	defer cancel()

	u, err := scanUser(s.pool.QueryRow(ctx, q, id, passwordHash, when))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, storeErr("reset password", err)
	}
	return u, nil
}

func (s *UsersStore) UpdateProfile(ctx context.Context, id string, upd domain.ProfileUpdate) (domain.User, error) {
	sets := make([]string, 0, 4)
	args := []any{id}

	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.FirstName != nil {
		add("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		add("last_name", *upd.LastName)
	}
	if upd.DateOfBirth != nil {
		add("date_of_birth", *upd.DateOfBirth)
	}
	if len(sets) == 0 {
		return domain.User{}, domain.NewValidationError(map[string]string{"body": "provide at least one field to update"})
	}
	sets = append(sets, "updated_at = now()")

	q := fmt.Sprintf(`UPDATE users SET %s WHERE id = $1 RETURNING %s`,
		joinSets(sets), userColumns)

	ctx, cancel := queryCtx(ctx)
	defer cancel()

	u, err := scanUser(s.pool.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, storeErr("update profile", err)
	}
	return u, nil
}

func joinSets(sets []string) string {
	out := sets[0]
	for _, s := range sets[1:] {
		out += ", " + s
	}
	return out
}

// mapUserWriteError translates the store's native unique-violation payload into
// the domain conflict error so callers never string-match on pg internals.
func mapUserWriteError(err error) error {
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) && pgerr.Code == "23505" {
		return domain.ErrUserExists
	}
	return storeErr("create user", err)
}
