package domain

import "time"

type BookingStatus string

const (
	BookingReserved   BookingStatus = "reserved"
	BookingCheckedIn  BookingStatus = "checked_in"
	BookingCheckedOut BookingStatus = "checked_out"
	BookingCanceled   BookingStatus = "canceled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingReserved, BookingCheckedIn, BookingCheckedOut, BookingCanceled:
		return true
	}
	return false
}

// Booking instants are stored in UTC; billing converts to the hotel's
// local offset only when evaluating tariff windows.
type Booking struct {
	ID               int64
	CustomerID       int64
	RoomID           int64
	CheckIn          time.Time
	ExpectedCheckOut *time.Time
	Status           BookingStatus
	Note             *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// BookingView is a booking joined with customer and room info.
type BookingView struct {
	Booking
	CustomerName       string
	CustomerNationalID string
	RoomNumber         string
	RoomFloor          int
	RoomTypeName       string
}

// OccupancyRow backs the front-desk "who is in which room" board.
type OccupancyRow struct {
	BookingID    int64
	RoomNumber   string
	RoomFloor    int
	RoomTypeName string
	CustomerName string
	CheckIn      time.Time
}
