package domain

import "time"

type Customer struct {
	ID         int64
	FullName   string
	NationalID string
	Phone      *string
	Email      *string
	Address    *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
