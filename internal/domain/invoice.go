package domain

import "time"

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPaid    PaymentStatus = "paid"
	PaymentPartial PaymentStatus = "partial"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentUnpaid, PaymentPaid, PaymentPartial:
		return true
	}
	return false
}

type Invoice struct {
	ID            int64
	BookingID     int64
	CustomerID    int64
	CheckOut      time.Time
	RoomTotal     int64
	ServiceTotal  int64
	GrandTotal    int64
	PaymentMethod *string
	PaymentStatus PaymentStatus
	Note          *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// InvoiceView is an invoice joined with customer and room info.
type InvoiceView struct {
	Invoice
	CustomerName       string
	CustomerNationalID string
	RoomNumber         string
	RoomFloor          int
	RoomTypeName       string
	CheckIn            time.Time
}

// RevenueStats aggregates invoices over a period.
type RevenueStats struct {
	InvoiceCount int64
	Revenue      int64
	RoomRevenue  int64
	ServiceTotal int64
	PaidCount    int64
	UnpaidCount  int64
}
