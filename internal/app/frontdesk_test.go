package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"hotel_desk/internal/app"
	"hotel_desk/internal/billing"
	"hotel_desk/internal/domain"
)

// ---- fakes ----

// fakeStore backs every repository port with in-memory maps. Just enough
// behavior for the service-level tests; SQL semantics live in the storage
// integration test.
type fakeStore struct {
	roomTypes map[int64]domain.RoomType
	rooms     map[int64]domain.RoomView
	customers map[int64]domain.Customer
	services  map[int64]domain.Service
	bookings  map[int64]domain.BookingView
	usage     []domain.ServiceUsageView
	invoices  map[int64]domain.InvoiceView
	staff     map[int64]domain.Staff
	nextID    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		roomTypes: map[int64]domain.RoomType{},
		rooms:     map[int64]domain.RoomView{},
		customers: map[int64]domain.Customer{},
		services:  map[int64]domain.Service{},
		bookings:  map[int64]domain.BookingView{},
		invoices:  map[int64]domain.InvoiceView{},
		staff:     map[int64]domain.Staff{},
		nextID:    100,
	}
}

func (f *fakeStore) id() int64 { f.nextID++; return f.nextID }

func (f *fakeStore) ListRoomTypes(ctx context.Context) ([]domain.RoomType, error) { return nil, nil }
func (f *fakeStore) GetRoomType(ctx context.Context, id int64) (domain.RoomType, error) {
	rt, ok := f.roomTypes[id]
	if !ok {
		return domain.RoomType{}, domain.ErrNotFound
	}
	return rt, nil
}
func (f *fakeStore) CreateRoomType(ctx context.Context, rt domain.RoomType) (int64, error) {
	rt.ID = f.id()
	f.roomTypes[rt.ID] = rt
	return rt.ID, nil
}
func (f *fakeStore) UpdateRoomType(ctx context.Context, rt domain.RoomType) error { return nil }
func (f *fakeStore) DeleteRoomType(ctx context.Context, id int64) error           { return nil }

func (f *fakeStore) ListRooms(ctx context.Context) ([]domain.RoomView, error)          { return nil, nil }
func (f *fakeStore) ListAvailableRooms(ctx context.Context) ([]domain.RoomView, error) { return nil, nil }
func (f *fakeStore) GetRoom(ctx context.Context, id int64) (domain.RoomView, error) {
	r, ok := f.rooms[id]
	if !ok {
		return domain.RoomView{}, domain.ErrNotFound
	}
	return r, nil
}
func (f *fakeStore) CreateRoom(ctx context.Context, r domain.Room) (int64, error) { return 0, nil }
func (f *fakeStore) UpdateRoom(ctx context.Context, r domain.Room) error          { return nil }
func (f *fakeStore) UpdateRoomStatus(ctx context.Context, id int64, st domain.RoomStatus) error {
	r := f.rooms[id]
	r.Status = st
	f.rooms[id] = r
	return nil
}
func (f *fakeStore) DeleteRoom(ctx context.Context, id int64) error { return nil }

func (f *fakeStore) ListCustomers(ctx context.Context, search string) ([]domain.Customer, error) {
	return nil, nil
}
func (f *fakeStore) GetCustomer(ctx context.Context, id int64) (domain.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return domain.Customer{}, domain.ErrNotFound
	}
	return c, nil
}
func (f *fakeStore) CreateCustomer(ctx context.Context, c domain.Customer) (int64, error) {
	c.ID = f.id()
	f.customers[c.ID] = c
	return c.ID, nil
}
func (f *fakeStore) UpdateCustomer(ctx context.Context, c domain.Customer) error { return nil }
func (f *fakeStore) DeleteCustomer(ctx context.Context, id int64) error          { return nil }

func (f *fakeStore) ListServices(ctx context.Context) ([]domain.Service, error) { return nil, nil }
func (f *fakeStore) GetService(ctx context.Context, id int64) (domain.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return domain.Service{}, domain.ErrNotFound
	}
	return s, nil
}
func (f *fakeStore) CreateService(ctx context.Context, s domain.Service) (int64, error) {
	s.ID = f.id()
	f.services[s.ID] = s
	return s.ID, nil
}
func (f *fakeStore) UpdateService(ctx context.Context, s domain.Service) error { return nil }
func (f *fakeStore) DeleteService(ctx context.Context, id int64) error         { return nil }

func (f *fakeStore) ListBookings(ctx context.Context) ([]domain.BookingView, error) { return nil, nil }
func (f *fakeStore) GetBooking(ctx context.Context, id int64) (domain.BookingView, error) {
	b, ok := f.bookings[id]
	if !ok {
		return domain.BookingView{}, domain.ErrNotFound
	}
	return b, nil
}
func (f *fakeStore) CheckIn(ctx context.Context, b domain.Booking) (int64, error) {
	room, ok := f.rooms[b.RoomID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if room.Status != domain.RoomAvailable {
		return 0, domain.ErrConflict
	}
	b.ID = f.id()
	f.bookings[b.ID] = domain.BookingView{Booking: b, RoomNumber: room.Number}
	if b.Status == domain.BookingCheckedIn {
		_ = f.UpdateRoomStatus(ctx, b.RoomID, domain.RoomOccupied)
	}
	return b.ID, nil
}
func (f *fakeStore) UpdateBooking(ctx context.Context, b domain.Booking) error {
	bv, ok := f.bookings[b.ID]
	if !ok {
		return domain.ErrNotFound
	}
	bv.Booking = b
	f.bookings[b.ID] = bv
	return nil
}
func (f *fakeStore) CheckOut(ctx context.Context, bookingID int64, inv domain.Invoice) (int64, error) {
	bv, ok := f.bookings[bookingID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if bv.Status != domain.BookingCheckedIn {
		return 0, domain.ErrConflict
	}
	bv.Status = domain.BookingCheckedOut
	f.bookings[bookingID] = bv
	_ = f.UpdateRoomStatus(ctx, bv.RoomID, domain.RoomCleaning)
	inv.ID = f.id()
	f.invoices[inv.ID] = domain.InvoiceView{Invoice: inv}
	return inv.ID, nil
}
func (f *fakeStore) ListOccupancy(ctx context.Context) ([]domain.OccupancyRow, error) {
	var out []domain.OccupancyRow
	for _, b := range f.bookings {
		if b.Status == domain.BookingCheckedIn {
			out = append(out, domain.OccupancyRow{BookingID: b.ID, RoomNumber: b.RoomNumber})
		}
	}
	return out, nil
}
func (f *fakeStore) AddServiceUsage(ctx context.Context, u domain.ServiceUsage) (int64, error) {
	u.ID = f.id()
	f.usage = append(f.usage, domain.ServiceUsageView{ServiceUsage: u})
	return u.ID, nil
}
func (f *fakeStore) ListServiceUsage(ctx context.Context, bookingID int64) ([]domain.ServiceUsageView, error) {
	var out []domain.ServiceUsageView
	for _, u := range f.usage {
		if u.BookingID == bookingID {
			out = append(out, u)
		}
	}
	return out, nil
}
func (f *fakeStore) ServiceUsageTotal(ctx context.Context, bookingID int64) (int64, error) {
	var total int64
	for _, u := range f.usage {
		if u.BookingID == bookingID {
			total += u.UnitPrice * u.Quantity
		}
	}
	return total, nil
}

func (f *fakeStore) ListInvoices(ctx context.Context) ([]domain.InvoiceView, error) { return nil, nil }
func (f *fakeStore) GetInvoice(ctx context.Context, id int64) (domain.InvoiceView, error) {
	iv, ok := f.invoices[id]
	if !ok {
		return domain.InvoiceView{}, domain.ErrNotFound
	}
	return iv, nil
}
func (f *fakeStore) UpdateInvoicePayment(ctx context.Context, id int64, method *string, st domain.PaymentStatus, note *string) error {
	return nil
}
func (f *fakeStore) RevenueStats(ctx context.Context, from, to *time.Time) (domain.RevenueStats, error) {
	var s domain.RevenueStats
	for _, iv := range f.invoices {
		s.InvoiceCount++
		s.Revenue += iv.GrandTotal
		s.RoomRevenue += iv.RoomTotal
		s.ServiceTotal += iv.ServiceTotal
	}
	return s, nil
}

func (f *fakeStore) GetStaffByUsername(ctx context.Context, username string) (domain.Staff, error) {
	for _, st := range f.staff {
		if st.Username == username {
			return st, nil
		}
	}
	return domain.Staff{}, domain.ErrNotFound
}
func (f *fakeStore) GetStaff(ctx context.Context, id int64) (domain.Staff, error) {
	st, ok := f.staff[id]
	if !ok {
		return domain.Staff{}, domain.ErrNotFound
	}
	return st, nil
}
func (f *fakeStore) CreateStaff(ctx context.Context, s domain.Staff) (int64, error) {
	s.ID = f.id()
	f.staff[s.ID] = s
	return s.ID, nil
}

type fakeCache struct {
	store map[string]any
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *app.BillPreview:
		*d = v.(app.BillPreview)
	case *[]domain.OccupancyRow:
		*d = v.([]domain.OccupancyRow)
	case *domain.RevenueStats:
		*d = v.(domain.RevenueStats)
	}
	return true, nil
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

// ---- helpers ----

func seedStay(t *testing.T, f *fakeStore) (customerID, roomID int64) {
	t.Helper()
	rtID, _ := f.CreateRoomType(context.Background(), domain.RoomType{
		Name:  "Standard",
		Rates: billing.Tariff{FirstHour: 50000, ExtraHour: 20000, Overnight: 150000, Daily: 250000},
	})
	roomID = f.id()
	f.rooms[roomID] = domain.RoomView{
		Room: domain.Room{ID: roomID, Number: "101", Floor: 1, RoomTypeID: rtID, Status: domain.RoomAvailable},
	}
	customerID, _ = f.CreateCustomer(context.Background(), domain.Customer{FullName: "Ana", NationalID: "C-1"})
	return customerID, roomID
}

func newDesk(f *fakeStore, c domain.Cache) *app.FrontDeskService {
	calc := billing.New(billing.Config{}, zerolog.Nop())
	return app.NewFrontDeskService(f, f, f, f, f, c, calc, time.Minute)
}

// ---- tests ----

func TestCheckIn_WalkIn(t *testing.T) {
	f := newFakeStore()
	custID, roomID := seedStay(t, f)
	desk := newDesk(f, &fakeCache{})

	bv, err := desk.CheckIn(context.Background(), domain.Booking{CustomerID: custID, RoomID: roomID})
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if bv.Status != domain.BookingCheckedIn {
		t.Fatalf("expected checked_in, got %s", bv.Status)
	}
	if bv.CheckIn.IsZero() {
		t.Fatal("check-in time not defaulted")
	}
	if f.rooms[roomID].Status != domain.RoomOccupied {
		t.Fatalf("room should be occupied, got %s", f.rooms[roomID].Status)
	}
}

func TestCheckIn_RoomTaken(t *testing.T) {
	f := newFakeStore()
	custID, roomID := seedStay(t, f)
	desk := newDesk(f, &fakeCache{})

	if _, err := desk.CheckIn(context.Background(), domain.Booking{CustomerID: custID, RoomID: roomID}); err != nil {
		t.Fatalf("first CheckIn: %v", err)
	}
	_, err := desk.CheckIn(context.Background(), domain.Booking{CustomerID: custID, RoomID: roomID})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCheckIn_UnknownCustomer(t *testing.T) {
	f := newFakeStore()
	_, roomID := seedStay(t, f)
	desk := newDesk(f, &fakeCache{})

	_, err := desk.CheckIn(context.Background(), domain.Booking{CustomerID: 9999, RoomID: roomID})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCheckIn_FutureInstantRejected(t *testing.T) {
	f := newFakeStore()
	custID, roomID := seedStay(t, f)
	desk := newDesk(f, &fakeCache{})

	_, err := desk.CheckIn(context.Background(), domain.Booking{
		CustomerID: custID, RoomID: roomID,
		CheckIn: time.Now().Add(48 * time.Hour).UTC(),
	})
	if !errors.Is(err, app.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(f.bookings) != 0 {
		t.Fatal("booking stored despite rejection")
	}
}

func TestUpdateBooking_PartialKeepsCurrentFields(t *testing.T) {
	f := newFakeStore()
	custID, roomID := seedStay(t, f)
	desk := newDesk(f, &fakeCache{})

	checkIn := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	bv, err := desk.CheckIn(context.Background(), domain.Booking{
		CustomerID: custID, RoomID: roomID, CheckIn: checkIn,
	})
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	// Only the note is supplied; everything else must survive the update.
	note := "late departure agreed"
	got, err := desk.UpdateBooking(context.Background(), domain.Booking{ID: bv.ID, Note: &note})
	if err != nil {
		t.Fatalf("UpdateBooking: %v", err)
	}
	if !got.CheckIn.Equal(checkIn) {
		t.Fatalf("check-in rewritten to %v", got.CheckIn)
	}
	if got.CustomerID != custID || got.RoomID != roomID {
		t.Fatalf("customer/room rewritten: %+v", got.Booking)
	}
	if got.Status != domain.BookingCheckedIn {
		t.Fatalf("status rewritten to %s", got.Status)
	}
	if got.Note == nil || *got.Note != note {
		t.Fatalf("note not applied: %v", got.Note)
	}
}

func TestAddService_SnapshotsPrice(t *testing.T) {
	f := newFakeStore()
	custID, roomID := seedStay(t, f)
	svcID, _ := f.CreateService(context.Background(), domain.Service{Name: "Laundry", Price: 30000})
	desk := newDesk(f, &fakeCache{})

	bv, err := desk.CheckIn(context.Background(), domain.Booking{CustomerID: custID, RoomID: roomID})
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	u, err := desk.AddService(context.Background(), bv.ID, svcID, 2, nil)
	if err != nil {
		t.Fatalf("AddService: %v", err)
	}
	if u.UnitPrice != 30000 {
		t.Fatalf("unit price snapshot = %d", u.UnitPrice)
	}

	// Raising the catalog price must not change the recorded charge.
	svc := f.services[svcID]
	svc.Price = 99999
	f.services[svcID] = svc

	total, _ := f.ServiceUsageTotal(context.Background(), bv.ID)
	if total != 60000 {
		t.Fatalf("usage total = %d, want 60000", total)
	}
}

func TestAddService_RequiresCheckedIn(t *testing.T) {
	f := newFakeStore()
	custID, roomID := seedStay(t, f)
	svcID, _ := f.CreateService(context.Background(), domain.Service{Name: "Laundry", Price: 30000})
	desk := newDesk(f, &fakeCache{})

	bv, err := desk.CheckIn(context.Background(), domain.Booking{
		CustomerID: custID, RoomID: roomID, Status: domain.BookingReserved,
	})
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if _, err := desk.AddService(context.Background(), bv.ID, svcID, 1, nil); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRunningTotal_CachedAndEvicted(t *testing.T) {
	f := newFakeStore()
	custID, roomID := seedStay(t, f)
	svcID, _ := f.CreateService(context.Background(), domain.Service{Name: "Minibar", Price: 40000})
	cache := &fakeCache{}
	desk := newDesk(f, cache)

	checkIn := time.Now().UTC().Add(-90 * time.Minute)
	bv, err := desk.CheckIn(context.Background(), domain.Booking{
		CustomerID: custID, RoomID: roomID, CheckIn: checkIn,
	})
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	// 90 minutes is under the hourly-only threshold: first hour + one extra.
	bill, err := desk.RunningTotal(context.Background(), bv.ID)
	if err != nil {
		t.Fatalf("RunningTotal: %v", err)
	}
	if bill.Room.Strategy != billing.StrategyHourly {
		t.Fatalf("strategy = %s, want hourly", bill.Room.Strategy)
	}
	if bill.Room.Total != 70000 || bill.GrandTotal != 70000 {
		t.Fatalf("room=%d grand=%d, want 70000/70000", bill.Room.Total, bill.GrandTotal)
	}

	// Second read must come from cache.
	bill2, err := desk.RunningTotal(context.Background(), bv.ID)
	if err != nil {
		t.Fatalf("RunningTotal (cached): %v", err)
	}
	if bill2.GrandTotal != bill.GrandTotal {
		t.Fatalf("cached grand total drifted: %d vs %d", bill2.GrandTotal, bill.GrandTotal)
	}

	// Charging a service evicts the cached bill.
	if _, err := desk.AddService(context.Background(), bv.ID, svcID, 1, nil); err != nil {
		t.Fatalf("AddService: %v", err)
	}
	bill3, err := desk.RunningTotal(context.Background(), bv.ID)
	if err != nil {
		t.Fatalf("RunningTotal (after service): %v", err)
	}
	if bill3.ServiceTotal != 40000 || bill3.GrandTotal != bill3.Room.Total+40000 {
		t.Fatalf("service total not reflected: %+v", bill3)
	}
}

func TestCheckOut_CutsInvoiceAndReleasesRoom(t *testing.T) {
	f := newFakeStore()
	custID, roomID := seedStay(t, f)
	svcID, _ := f.CreateService(context.Background(), domain.Service{Name: "Laundry", Price: 30000})
	desk := newDesk(f, &fakeCache{})

	ict := time.FixedZone("UTC+7", 7*3600)
	checkIn := time.Date(2026, 3, 10, 19, 0, 0, 0, ict)
	checkOut := time.Date(2026, 3, 11, 11, 0, 0, 0, ict)

	bv, err := desk.CheckIn(context.Background(), domain.Booking{
		CustomerID: custID, RoomID: roomID, CheckIn: checkIn.UTC(),
	})
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if _, err := desk.AddService(context.Background(), bv.ID, svcID, 1, nil); err != nil {
		t.Fatalf("AddService: %v", err)
	}

	inv, bill, err := desk.CheckOut(context.Background(), bv.ID, app.CheckOutInput{
		CheckOut:      &checkOut,
		PaymentStatus: domain.PaymentPaid,
	})
	if err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	// One clean overnight window plus the laundry charge.
	if bill.Room.Strategy != billing.StrategyOvernight {
		t.Fatalf("strategy = %s, want overnight", bill.Room.Strategy)
	}
	if inv.RoomTotal != 150000 || inv.ServiceTotal != 30000 || inv.GrandTotal != 180000 {
		t.Fatalf("invoice totals: %+v", inv)
	}
	if inv.PaymentStatus != domain.PaymentPaid {
		t.Fatalf("payment status = %s", inv.PaymentStatus)
	}
	if f.bookings[bv.ID].Status != domain.BookingCheckedOut {
		t.Fatalf("booking status = %s", f.bookings[bv.ID].Status)
	}
	if f.rooms[roomID].Status != domain.RoomCleaning {
		t.Fatalf("room status = %s", f.rooms[roomID].Status)
	}
}

func TestBill_RebuildsInvoiceBreakdown(t *testing.T) {
	f := newFakeStore()
	custID, roomID := seedStay(t, f)
	svcID, _ := f.CreateService(context.Background(), domain.Service{Name: "Laundry", Price: 30000})
	desk := newDesk(f, &fakeCache{})

	ict := time.FixedZone("UTC+7", 7*3600)
	checkIn := time.Date(2026, 3, 10, 19, 0, 0, 0, ict)
	checkOut := time.Date(2026, 3, 11, 11, 0, 0, 0, ict)

	bv, err := desk.CheckIn(context.Background(), domain.Booking{
		CustomerID: custID, RoomID: roomID, CheckIn: checkIn.UTC(),
	})
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if _, err := desk.AddService(context.Background(), bv.ID, svcID, 1, nil); err != nil {
		t.Fatalf("AddService: %v", err)
	}
	inv, _, err := desk.CheckOut(context.Background(), bv.ID, app.CheckOutInput{CheckOut: &checkOut})
	if err != nil {
		t.Fatalf("CheckOut: %v", err)
	}

	// Repricing at the recorded departure instant reproduces the invoice.
	bill, err := desk.Bill(context.Background(), bv.ID, inv.CheckOut)
	if err != nil {
		t.Fatalf("Bill: %v", err)
	}
	if bill.Room.Total != inv.RoomTotal || bill.GrandTotal != inv.GrandTotal {
		t.Fatalf("rebuilt bill %+v does not match invoice %+v", bill, inv)
	}
	if bill.Room.Strategy != billing.StrategyOvernight {
		t.Fatalf("strategy = %s, want overnight", bill.Room.Strategy)
	}
}

func TestCheckOut_Twice(t *testing.T) {
	f := newFakeStore()
	custID, roomID := seedStay(t, f)
	desk := newDesk(f, &fakeCache{})

	bv, err := desk.CheckIn(context.Background(), domain.Booking{
		CustomerID: custID, RoomID: roomID,
		CheckIn: time.Now().UTC().Add(-2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if _, _, err := desk.CheckOut(context.Background(), bv.ID, app.CheckOutInput{}); err != nil {
		t.Fatalf("first CheckOut: %v", err)
	}
	if _, _, err := desk.CheckOut(context.Background(), bv.ID, app.CheckOutInput{}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}
