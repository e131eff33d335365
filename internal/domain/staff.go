package domain

import "time"

type StaffRole string

const (
	RoleManager StaffRole = "manager"
	RoleClerk   StaffRole = "clerk"
)

func (r StaffRole) Valid() bool {
	return r == RoleManager || r == RoleClerk
}

type Staff struct {
	ID           int64
	FullName     string
	Username     string
	PasswordHash string // bcrypt
	Email        *string
	Phone        *string
	Role         StaffRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
