package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func ValidRole(r Role) bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID                string
	FirstName         string
	LastName          string
	Username          string
	Email             string
	Role              Role
	IsActive          bool
	ProfileImageURL   *string
	DateOfBirth       *time.Time
	PasswordChangedAt *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// UserWithCredentials carries the password hash alongside the public record.
// It never leaves the service layer.
type UserWithCredentials struct {
	User
	PasswordHash string
}

type ProfileUpdate struct {
	FirstName   *string
	LastName    *string
	DateOfBirth *time.Time
}

func (u ProfileUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.DateOfBirth == nil
}

type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
