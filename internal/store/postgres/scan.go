package postgres

import (
	"encoding/hex"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/shahyash1136/budgetAPI/internal/domain"
)

// userColumns is the public projection. Credential columns are selected only
// by the *Credentials variants.
const userColumns = `id, first_name, last_name, username, email, role, is_active,
	profile_image_url, date_of_birth, password_changed_at, created_at, updated_at`

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		u         domain.User
		idUUID    pgtype.UUID
		imageText pgtype.Text
		dob       pgtype.Date
		pwChanged pgtype.Timestamptz
	)
	err := row.Scan(
		&idUUID,
		&u.FirstName,
		&u.LastName,
		&u.Username,
		&u.Email,
		&u.Role,
		&u.IsActive,
		&imageText,
		&dob,
		&pwChanged,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}

	u.ID = uuidOrEmpty(idUUID)
	u.ProfileImageURL = textPtr(imageText)
	u.DateOfBirth = datePtr(dob)
	u.PasswordChangedAt = timestamptzPtr(pwChanged)
	return u, nil
}

func scanUserWithCredentials(row pgx.Row) (domain.UserWithCredentials, error) {
	var (
		u         domain.UserWithCredentials
		idUUID    pgtype.UUID
		imageText pgtype.Text
		dob       pgtype.Date
		pwChanged pgtype.Timestamptz
	)
	err := row.Scan(
		&idUUID,
		&u.FirstName,
		&u.LastName,
		&u.Username,
		&u.Email,
		&u.Role,
		&u.IsActive,
		&imageText,
		&dob,
		&pwChanged,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.PasswordHash,
	)
	if err != nil {
		return domain.UserWithCredentials{}, err
	}

	u.ID = uuidOrEmpty(idUUID)
	u.ProfileImageURL = textPtr(imageText)
	u.DateOfBirth = datePtr(dob)
	u.PasswordChangedAt = timestamptzPtr(pwChanged)
	return u, nil
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func datePtr(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

func timestamptzPtr(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	tt := t.Time
	return &tt
}

func uuidOrEmpty(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return uuidBytesToString(u.Bytes)
}

func uuidBytesToString(b [16]byte) string {
	var buf [36]byte
	hex.Encode(buf[0:8], b[0:4])
	buf[8] = '-'
	hex.Encode(buf[9:13], b[4:6])
	buf[13] = '-'
	hex.Encode(buf[14:18], b[6:8])
	buf[18] = '-'
	hex.Encode(buf[19:23], b[8:10])
	buf[23] = '-'
	hex.Encode(buf[24:36], b[10:16])
	return string(buf[:])
}
