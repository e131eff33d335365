package domain

import (
	"time"

	"hotel_desk/internal/billing"
)

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomCleaning    RoomStatus = "cleaning"
	RoomMaintenance RoomStatus = "maintenance"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomCleaning, RoomMaintenance:
		return true
	}
	return false
}

type RoomType struct {
	ID        int64
	Name      string
	Rates     billing.Tariff
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Room struct {
	ID         int64
	Number     string
	Floor      int
	RoomTypeID int64
	Status     RoomStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RoomView is a room joined with its type name for list endpoints.
type RoomView struct {
	Room
	RoomTypeName string
}
