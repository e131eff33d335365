//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"hotel_desk/internal/billing"
	"hotel_desk/internal/domain"
	mysqlrepo "hotel_desk/internal/storage/mysql"
)

// ---------- small helpers ----------

func pstr(s string) *string { return &s }

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()

	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=frontdesk",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&clientFoundRows=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "frontdesk")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

// ---------- the test ----------

func TestRepo_MySQL_StayLifecycle(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// Arrange the catalog.
	rtID, err := repo.CreateRoomType(ctx, domain.RoomType{
		Name:  "Standard",
		Rates: billing.Tariff{FirstHour: 50000, ExtraHour: 20000, Overnight: 150000, Daily: 250000},
	})
	if err != nil {
		t.Fatalf("CreateRoomType: %v", err)
	}

	roomID, err := repo.CreateRoom(ctx, domain.Room{
		Number: "101", Floor: 1, RoomTypeID: rtID, Status: domain.RoomAvailable,
	})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	custID, err := repo.CreateCustomer(ctx, domain.Customer{
		FullName: "Ana Guest", NationalID: "C-100", Phone: pstr("555-0100"),
	})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}

	svcID, err := repo.CreateService(ctx, domain.Service{Name: "Laundry", Price: 30000})
	if err != nil {
		t.Fatalf("CreateService: %v", err)
	}

	// Duplicate room number must be refused.
	if _, err := repo.CreateRoom(ctx, domain.Room{
		Number: "101", Floor: 1, RoomTypeID: rtID, Status: domain.RoomAvailable,
	}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate room: expected ErrConflict, got %v", err)
	}

	// Room type with rooms must be refused.
	if err := repo.DeleteRoomType(ctx, rtID); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("delete busy room type: expected ErrConflict, got %v", err)
	}

	// Check in.
	checkIn := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	bookingID, err := repo.CheckIn(ctx, domain.Booking{
		CustomerID: custID, RoomID: roomID,
		CheckIn: checkIn, Status: domain.BookingCheckedIn,
	})
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	room, err := repo.GetRoom(ctx, roomID)
	if err != nil {
		t.Fatalf("GetRoom: %v", err)
	}
	if room.Status != domain.RoomOccupied {
		t.Fatalf("room status after check-in = %s", room.Status)
	}

	// Same room again while occupied must be refused.
	if _, err := repo.CheckIn(ctx, domain.Booking{
		CustomerID: custID, RoomID: roomID,
		CheckIn: checkIn, Status: domain.BookingCheckedIn,
	}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("double check-in: expected ErrConflict, got %v", err)
	}

	// Service usage snapshots the unit price.
	if _, err := repo.AddServiceUsage(ctx, domain.ServiceUsage{
		BookingID: bookingID, ServiceID: svcID, Quantity: 2, UnitPrice: 30000,
		UsedAt: checkIn.Add(time.Hour),
	}); err != nil {
		t.Fatalf("AddServiceUsage: %v", err)
	}
	total, err := repo.ServiceUsageTotal(ctx, bookingID)
	if err != nil {
		t.Fatalf("ServiceUsageTotal: %v", err)
	}
	if total != 60000 {
		t.Fatalf("usage total = %d, want 60000", total)
	}

	// Occupancy board shows the stay.
	board, err := repo.ListOccupancy(ctx)
	if err != nil {
		t.Fatalf("ListOccupancy: %v", err)
	}
	if len(board) != 1 || board[0].RoomNumber != "101" || board[0].CustomerName != "Ana Guest" {
		t.Fatalf("unexpected board: %+v", board)
	}

	// Check out cuts the invoice, closes the booking, releases the room.
	checkOut := checkIn.Add(26 * time.Hour)
	invID, err := repo.CheckOut(ctx, bookingID, domain.Invoice{
		BookingID: bookingID, CustomerID: custID, CheckOut: checkOut,
		RoomTotal: 250000, ServiceTotal: 60000, GrandTotal: 310000,
		PaymentStatus: domain.PaymentUnpaid,
	})
	if err != nil {
		t.Fatalf("CheckOut: %v", err)
	}

	bv, err := repo.GetBooking(ctx, bookingID)
	if err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if bv.Status != domain.BookingCheckedOut {
		t.Fatalf("booking status = %s", bv.Status)
	}
	room, _ = repo.GetRoom(ctx, roomID)
	if room.Status != domain.RoomCleaning {
		t.Fatalf("room status after check-out = %s", room.Status)
	}

	// A second check-out must be refused.
	if _, err := repo.CheckOut(ctx, bookingID, domain.Invoice{
		BookingID: bookingID, CustomerID: custID, CheckOut: checkOut,
		PaymentStatus: domain.PaymentUnpaid,
	}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("double check-out: expected ErrConflict, got %v", err)
	}

	// Settle the invoice.
	if err := repo.UpdateInvoicePayment(ctx, invID, pstr("cash"), domain.PaymentPaid, nil); err != nil {
		t.Fatalf("UpdateInvoicePayment: %v", err)
	}
	iv, err := repo.GetInvoice(ctx, invID)
	if err != nil {
		t.Fatalf("GetInvoice: %v", err)
	}
	if iv.GrandTotal != 310000 || iv.PaymentStatus != domain.PaymentPaid ||
		iv.PaymentMethod == nil || *iv.PaymentMethod != "cash" {
		t.Fatalf("unexpected invoice: %+v", iv)
	}
	if !iv.CheckIn.Equal(checkIn) {
		t.Fatalf("invoice check-in = %v, want %v", iv.CheckIn, checkIn)
	}

	// Stats over the window.
	from := checkIn.Add(-time.Hour)
	to := checkOut.Add(time.Hour)
	st, err := repo.RevenueStats(ctx, &from, &to)
	if err != nil {
		t.Fatalf("RevenueStats: %v", err)
	}
	if st.InvoiceCount != 1 || st.Revenue != 310000 || st.RoomRevenue != 250000 || st.PaidCount != 1 {
		t.Fatalf("unexpected stats: %+v", st)
	}

	// Service on a bill can no longer be deleted.
	if err := repo.DeleteService(ctx, svcID); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("delete used service: expected ErrConflict, got %v", err)
	}

	// The now-cleaning room still blocks deletion only while bookings are
	// active; a checked-out stay does not.
	if err := repo.DeleteRoom(ctx, roomID); err != nil && !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("DeleteRoom: %v", err)
	}
}

func TestRepo_MySQL_StaffAndCustomers(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	id, err := repo.CreateStaff(ctx, domain.Staff{
		FullName: "Mia Manager", Username: "mia", PasswordHash: "$2a$10$x", Role: domain.RoleManager,
	})
	if err != nil {
		t.Fatalf("CreateStaff: %v", err)
	}
	st, err := repo.GetStaffByUsername(ctx, "mia")
	if err != nil {
		t.Fatalf("GetStaffByUsername: %v", err)
	}
	if st.ID != id || st.Role != domain.RoleManager {
		t.Fatalf("unexpected staff: %+v", st)
	}
	if _, err := repo.CreateStaff(ctx, domain.Staff{
		FullName: "Other", Username: "mia", PasswordHash: "$2a$10$y", Role: domain.RoleClerk,
	}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate username: expected ErrConflict, got %v", err)
	}

	if _, err := repo.CreateCustomer(ctx, domain.Customer{FullName: "Ana Guest", NationalID: "C-1"}); err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	if _, err := repo.CreateCustomer(ctx, domain.Customer{FullName: "Bob Guest", NationalID: "C-2"}); err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}

	// Search matches name or national id.
	got, err := repo.ListCustomers(ctx, "Bob")
	if err != nil {
		t.Fatalf("ListCustomers: %v", err)
	}
	if len(got) != 1 || got[0].FullName != "Bob Guest" {
		t.Fatalf("unexpected search result: %+v", got)
	}
	all, err := repo.ListCustomers(ctx, "")
	if err != nil {
		t.Fatalf("ListCustomers: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(all))
	}
}
