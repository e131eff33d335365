package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

type RoomTypeRepository interface {
	ListRoomTypes(ctx context.Context) ([]RoomType, error)
	GetRoomType(ctx context.Context, id int64) (RoomType, error)
	CreateRoomType(ctx context.Context, rt RoomType) (int64, error)
	UpdateRoomType(ctx context.Context, rt RoomType) error
	DeleteRoomType(ctx context.Context, id int64) error
}

type RoomRepository interface {
	ListRooms(ctx context.Context) ([]RoomView, error)
	ListAvailableRooms(ctx context.Context) ([]RoomView, error)
	GetRoom(ctx context.Context, id int64) (RoomView, error)
	CreateRoom(ctx context.Context, r Room) (int64, error)
	UpdateRoom(ctx context.Context, r Room) error
	UpdateRoomStatus(ctx context.Context, id int64, st RoomStatus) error
	DeleteRoom(ctx context.Context, id int64) error
}

type CustomerRepository interface {
	ListCustomers(ctx context.Context, search string) ([]Customer, error)
	GetCustomer(ctx context.Context, id int64) (Customer, error)
	CreateCustomer(ctx context.Context, c Customer) (int64, error)
	UpdateCustomer(ctx context.Context, c Customer) error
	DeleteCustomer(ctx context.Context, id int64) error
}

type ServiceRepository interface {
	ListServices(ctx context.Context) ([]Service, error)
	GetService(ctx context.Context, id int64) (Service, error)
	CreateService(ctx context.Context, s Service) (int64, error)
	UpdateService(ctx context.Context, s Service) error
	DeleteService(ctx context.Context, id int64) error
}

// BookingRepository covers bookings, their service usage and the invoices
// cut from them. CheckIn and CheckOut are transactional: they move the
// booking and the room (and for CheckOut, the new invoice) together.
type BookingRepository interface {
	ListBookings(ctx context.Context) ([]BookingView, error)
	GetBooking(ctx context.Context, id int64) (BookingView, error)
	CheckIn(ctx context.Context, b Booking) (int64, error)
	UpdateBooking(ctx context.Context, b Booking) error
	CheckOut(ctx context.Context, bookingID int64, inv Invoice) (int64, error)
	ListOccupancy(ctx context.Context) ([]OccupancyRow, error)

	AddServiceUsage(ctx context.Context, u ServiceUsage) (int64, error)
	ListServiceUsage(ctx context.Context, bookingID int64) ([]ServiceUsageView, error)
	ServiceUsageTotal(ctx context.Context, bookingID int64) (int64, error)
}

type InvoiceRepository interface {
	ListInvoices(ctx context.Context) ([]InvoiceView, error)
	GetInvoice(ctx context.Context, id int64) (InvoiceView, error)
	UpdateInvoicePayment(ctx context.Context, id int64, method *string, st PaymentStatus, note *string) error
	RevenueStats(ctx context.Context, from, to *time.Time) (RevenueStats, error)
}

type StaffRepository interface {
	GetStaffByUsername(ctx context.Context, username string) (Staff, error)
	GetStaff(ctx context.Context, id int64) (Staff, error)
	CreateStaff(ctx context.Context, s Staff) (int64, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
