package domain

import "time"

type Service struct {
	ID          int64
	Name        string
	Price       int64
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ServiceUsage records one service charged to a booking. UnitPrice is the
// service's price at the time of use, so later price edits don't rewrite
// past bills.
type ServiceUsage struct {
	ID        int64
	BookingID int64
	ServiceID int64
	Quantity  int64
	UnitPrice int64
	UsedAt    time.Time
	Note      *string
}

// ServiceUsageView joins the usage row with the service name for display.
type ServiceUsageView struct {
	ServiceUsage
	ServiceName string
}
