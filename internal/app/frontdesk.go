package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel_desk/internal/adapters/observability"
	"hotel_desk/internal/billing"
	"hotel_desk/internal/domain"
)

// ErrInvalidInput marks validation failures; the HTTP layer maps it to 400.
var ErrInvalidInput = errors.New("invalid input")

// BillPreview is the running bill of a stay priced up to AsOf. Before
// check-out it is an estimate; at check-out the same numbers become the
// invoice.
type BillPreview struct {
	BookingID    int64                     `json:"booking_id"`
	AsOf         time.Time                 `json:"as_of"`
	Room         billing.Charge            `json:"room"`
	Services     []domain.ServiceUsageView `json:"services"`
	ServiceTotal int64                     `json:"service_total"`
	GrandTotal   int64                     `json:"grand_total"`
}

// FrontDeskService runs the desk workflow: check-in, service charges,
// running totals and check-out. It owns invalidation of the cache entries
// the query side populates.
type FrontDeskService struct {
	bookings  domain.BookingRepository
	rooms     domain.RoomRepository
	roomTypes domain.RoomTypeRepository
	customers domain.CustomerRepository
	services  domain.ServiceRepository
	cache     domain.Cache
	calc      *billing.Calculator
	cacheTTL  time.Duration
	now       func() time.Time
}

func NewFrontDeskService(
	bookings domain.BookingRepository,
	rooms domain.RoomRepository,
	roomTypes domain.RoomTypeRepository,
	customers domain.CustomerRepository,
	services domain.ServiceRepository,
	cache domain.Cache,
	calc *billing.Calculator,
	cacheTTL time.Duration,
) *FrontDeskService {
	return &FrontDeskService{
		bookings:  bookings,
		rooms:     rooms,
		roomTypes: roomTypes,
		customers: customers,
		services:  services,
		cache:     cache,
		calc:      calc,
		cacheTTL:  cacheTTL,
		now:       time.Now,
	}
}

func runningTotalKey(bookingID int64) string { return fmt.Sprintf("runningtotal:%d", bookingID) }

const occupancyKey = "occupancy"

func (s *FrontDeskService) invalidateBooking(ctx context.Context, bookingID int64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, runningTotalKey(bookingID))
	_ = s.cache.Del(ctx, occupancyKey)
}

// CheckIn registers a booking. Walk-ins arrive as checked_in; reservations
// as reserved. The room must be available either way.
func (s *FrontDeskService) CheckIn(ctx context.Context, b domain.Booking) (domain.BookingView, error) {
	if b.Status == "" {
		b.Status = domain.BookingCheckedIn
	}
	if b.Status != domain.BookingCheckedIn && b.Status != domain.BookingReserved {
		return domain.BookingView{}, fmt.Errorf("%w: status %q", ErrInvalidInput, b.Status)
	}
	if b.CheckIn.IsZero() {
		b.CheckIn = s.now().UTC()
	}
	if b.CheckIn.After(s.now().UTC()) {
		return domain.BookingView{}, fmt.Errorf("%w: check-in in the future", ErrInvalidInput)
	}
	if b.ExpectedCheckOut != nil && b.ExpectedCheckOut.Before(b.CheckIn) {
		return domain.BookingView{}, fmt.Errorf("%w: expected check-out before check-in", ErrInvalidInput)
	}
	if _, err := s.customers.GetCustomer(ctx, b.CustomerID); err != nil {
		return domain.BookingView{}, err
	}

	id, err := s.bookings.CheckIn(ctx, b)
	if err != nil {
		return domain.BookingView{}, err
	}
	s.invalidateBooking(ctx, id)
	return s.bookings.GetBooking(ctx, id)
}

// UpdateBooking rewrites booking fields, covering room moves, reservation
// arrival and cancellation. Omitted fields keep the current row's values,
// so a partial PUT never zeroes check-in or reassigns customer and room.
func (s *FrontDeskService) UpdateBooking(ctx context.Context, b domain.Booking) (domain.BookingView, error) {
	cur, err := s.bookings.GetBooking(ctx, b.ID)
	if err != nil {
		return domain.BookingView{}, err
	}
	if b.CustomerID == 0 {
		b.CustomerID = cur.CustomerID
	}
	if b.RoomID == 0 {
		b.RoomID = cur.RoomID
	}
	if b.CheckIn.IsZero() {
		b.CheckIn = cur.CheckIn
	}
	if b.Status == "" {
		b.Status = cur.Status
	}
	if b.ExpectedCheckOut == nil {
		b.ExpectedCheckOut = cur.ExpectedCheckOut
	}
	if b.Note == nil {
		b.Note = cur.Note
	}
	if !b.Status.Valid() {
		return domain.BookingView{}, fmt.Errorf("%w: status %q", ErrInvalidInput, b.Status)
	}
	if b.ExpectedCheckOut != nil && b.ExpectedCheckOut.Before(b.CheckIn) {
		return domain.BookingView{}, fmt.Errorf("%w: expected check-out before check-in", ErrInvalidInput)
	}
	if err := s.bookings.UpdateBooking(ctx, b); err != nil {
		return domain.BookingView{}, err
	}
	s.invalidateBooking(ctx, b.ID)
	return s.bookings.GetBooking(ctx, b.ID)
}

// AddService charges a service to a checked-in booking, snapshotting the
// unit price so later price edits don't rewrite this bill.
func (s *FrontDeskService) AddService(ctx context.Context, bookingID, serviceID, quantity int64, note *string) (domain.ServiceUsage, error) {
	if quantity <= 0 {
		return domain.ServiceUsage{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	bv, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return domain.ServiceUsage{}, err
	}
	if bv.Status != domain.BookingCheckedIn {
		return domain.ServiceUsage{}, domain.ErrConflict
	}
	svc, err := s.services.GetService(ctx, serviceID)
	if err != nil {
		return domain.ServiceUsage{}, err
	}

	u := domain.ServiceUsage{
		BookingID: bookingID,
		ServiceID: serviceID,
		Quantity:  quantity,
		UnitPrice: svc.Price,
		UsedAt:    s.now().UTC(),
		Note:      note,
	}
	id, err := s.bookings.AddServiceUsage(ctx, u)
	if err != nil {
		return domain.ServiceUsage{}, err
	}
	u.ID = id
	s.invalidateBooking(ctx, bookingID)
	return u, nil
}

// tariffFor resolves the booking's room tariff at quote time, so rate
// edits apply to stays not yet checked out.
func (s *FrontDeskService) tariffFor(ctx context.Context, roomID int64) (billing.Tariff, error) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return billing.Tariff{}, err
	}
	rt, err := s.roomTypes.GetRoomType(ctx, room.RoomTypeID)
	if err != nil {
		return billing.Tariff{}, err
	}
	return rt.Rates, nil
}

func (s *FrontDeskService) bill(ctx context.Context, bv domain.BookingView, until time.Time) (BillPreview, error) {
	tariff, err := s.tariffFor(ctx, bv.RoomID)
	if err != nil {
		return BillPreview{}, err
	}
	charge, err := s.calc.Quote(bv.CheckIn, until, tariff)
	if err != nil {
		return BillPreview{}, err
	}
	usage, err := s.bookings.ListServiceUsage(ctx, bv.ID)
	if err != nil {
		return BillPreview{}, err
	}
	var svcTotal int64
	for _, u := range usage {
		svcTotal += u.UnitPrice * u.Quantity
	}
	return BillPreview{
		BookingID:    bv.ID,
		AsOf:         until,
		Room:         charge,
		Services:     usage,
		ServiceTotal: svcTotal,
		GrandTotal:   charge.Total + svcTotal,
	}, nil
}

// Bill reprices a stay between its check-in and the given instant. It does
// not touch the cache; invoice detail uses it to rebuild the itemized
// breakdown at the recorded departure time.
func (s *FrontDeskService) Bill(ctx context.Context, bookingID int64, until time.Time) (BillPreview, error) {
	bv, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return BillPreview{}, err
	}
	return s.bill(ctx, bv, until)
}

// RunningTotal prices the stay as if the guest left right now. Cached
// briefly; check-in, service charges and check-out all evict it.
func (s *FrontDeskService) RunningTotal(ctx context.Context, bookingID int64) (BillPreview, error) {
	key := runningTotalKey(bookingID)
	var cached BillPreview
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			return cached, nil
		}
	}

	bv, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return BillPreview{}, err
	}
	if bv.Status != domain.BookingCheckedIn {
		return BillPreview{}, domain.ErrConflict
	}

	out, err := s.bill(ctx, bv, s.now().UTC())
	if err != nil {
		return BillPreview{}, err
	}
	observability.ObserveQuote(out.Room.Strategy)
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

// CheckOutInput is what the clerk supplies at departure. CheckOut defaults
// to now; PaymentStatus defaults to unpaid.
type CheckOutInput struct {
	CheckOut      *time.Time
	PaymentStatus domain.PaymentStatus
	Note          *string
}

// CheckOut prices the stay, cuts the invoice and releases the room.
func (s *FrontDeskService) CheckOut(ctx context.Context, bookingID int64, in CheckOutInput) (domain.Invoice, BillPreview, error) {
	bv, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return domain.Invoice{}, BillPreview{}, err
	}
	if bv.Status != domain.BookingCheckedIn {
		return domain.Invoice{}, BillPreview{}, domain.ErrConflict
	}

	out := s.now().UTC()
	if in.CheckOut != nil {
		out = in.CheckOut.UTC()
	}
	if in.PaymentStatus == "" {
		in.PaymentStatus = domain.PaymentUnpaid
	}
	if !in.PaymentStatus.Valid() {
		return domain.Invoice{}, BillPreview{}, fmt.Errorf("%w: payment status %q", ErrInvalidInput, in.PaymentStatus)
	}

	bill, err := s.bill(ctx, bv, out)
	if err != nil {
		return domain.Invoice{}, BillPreview{}, err
	}

	inv := domain.Invoice{
		BookingID:     bookingID,
		CustomerID:    bv.CustomerID,
		CheckOut:      out,
		RoomTotal:     bill.Room.Total,
		ServiceTotal:  bill.ServiceTotal,
		GrandTotal:    bill.GrandTotal,
		PaymentStatus: in.PaymentStatus,
		Note:          in.Note,
	}
	id, err := s.bookings.CheckOut(ctx, bookingID, inv)
	if err != nil {
		return domain.Invoice{}, BillPreview{}, err
	}
	inv.ID = id

	observability.ObserveQuote(bill.Room.Strategy)
	observability.Checkouts.Inc()
	s.invalidateBooking(ctx, bookingID)
	return inv, bill, nil
}
