package mysql

import (
	"context"
	"database/sql"
	"time"

	"hotel_desk/internal/domain"
)

// -----------------------------------------------------------------------------
// Bookings
// -----------------------------------------------------------------------------

func scanBookingView(sc interface{ Scan(...any) error }) (domain.BookingView, error) {
	var bv domain.BookingView
	var expected sql.NullTime
	var status string
	var note sql.NullString
	err := sc.Scan(&bv.ID, &bv.CustomerID, &bv.RoomID, &bv.CheckIn, &expected, &status, &note,
		&bv.CreatedAt, &bv.UpdatedAt,
		&bv.CustomerName, &bv.CustomerNationalID,
		&bv.RoomNumber, &bv.RoomFloor,
		&bv.RoomTypeName)
	if expected.Valid {
		t := expected.Time
		bv.ExpectedCheckOut = &t
	}
	bv.Status = domain.BookingStatus(status)
	bv.Note = strPtr(note)
	return bv, err
}

func (r *Repo) ListBookings(ctx context.Context) ([]domain.BookingView, error) {
	rows, err := r.db.QueryContext(ctx, listBookingsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BookingView
	for rows.Next() {
		bv, err := scanBookingView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, bv)
	}
	return out, rows.Err()
}

func (r *Repo) GetBooking(ctx context.Context, id int64) (domain.BookingView, error) {
	bv, err := scanBookingView(r.db.QueryRowContext(ctx, getBookingSQL, id))
	if err == sql.ErrNoRows {
		return domain.BookingView{}, domain.ErrNotFound
	}
	return bv, err
}

func valTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return *p
}

// CheckIn inserts the booking and, when it starts as checked_in, moves the
// room to occupied. The room row is locked so two clerks cannot put guests
// into the same room at once.
func (r *Repo) CheckIn(ctx context.Context, b domain.Booking) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var roomStatus string
	if err := tx.QueryRowContext(ctx, roomStatusForUpdateSQL, b.RoomID).Scan(&roomStatus); err != nil {
		if err == sql.ErrNoRows {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	if domain.RoomStatus(roomStatus) != domain.RoomAvailable {
		return 0, domain.ErrConflict
	}

	res, err := tx.ExecContext(ctx, insertBookingSQL,
		b.CustomerID, b.RoomID, b.CheckIn, valTime(b.ExpectedCheckOut), string(b.Status), valStr(b.Note))
	if err != nil {
		return 0, mapWriteErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if b.Status == domain.BookingCheckedIn {
		if _, err := tx.ExecContext(ctx, updateRoomStatusSQL, string(domain.RoomOccupied), b.RoomID); err != nil {
			return 0, err
		}
	}
	return id, tx.Commit()
}

// UpdateBooking rewrites the booking and keeps room statuses consistent
// with the transition: moving to checked_in occupies the room, leaving
// checked_in sends it to cleaning, and changing rooms mid-stay does both.
func (r *Repo) UpdateBooking(ctx context.Context, b domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var prevRoomID int64
	var prevStatus string
	if err := tx.QueryRowContext(ctx, bookingForUpdateSQL, b.ID).Scan(&prevRoomID, &prevStatus); err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrNotFound
		}
		return err
	}

	if _, err := tx.ExecContext(ctx, updateBookingSQL,
		b.CustomerID, b.RoomID, b.CheckIn, valTime(b.ExpectedCheckOut), string(b.Status), valStr(b.Note),
		b.ID); err != nil {
		return mapWriteErr(err)
	}

	wasIn := domain.BookingStatus(prevStatus) == domain.BookingCheckedIn
	isIn := b.Status == domain.BookingCheckedIn
	switch {
	case wasIn && !isIn:
		if _, err := tx.ExecContext(ctx, updateRoomStatusSQL, string(domain.RoomCleaning), prevRoomID); err != nil {
			return err
		}
	case !wasIn && isIn:
		if _, err := tx.ExecContext(ctx, updateRoomStatusSQL, string(domain.RoomOccupied), b.RoomID); err != nil {
			return err
		}
	case wasIn && isIn && prevRoomID != b.RoomID:
		if _, err := tx.ExecContext(ctx, updateRoomStatusSQL, string(domain.RoomCleaning), prevRoomID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, updateRoomStatusSQL, string(domain.RoomOccupied), b.RoomID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CheckOut closes the booking, cuts the invoice and sends the room to
// cleaning, all in one transaction. ErrConflict when the booking is not
// currently checked in.
func (r *Repo) CheckOut(ctx context.Context, bookingID int64, inv domain.Invoice) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var roomID int64
	var status string
	if err := tx.QueryRowContext(ctx, bookingForUpdateSQL, bookingID).Scan(&roomID, &status); err != nil {
		if err == sql.ErrNoRows {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}

	res, err := tx.ExecContext(ctx, checkoutBookingSQL, bookingID)
	if err != nil {
		return 0, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return 0, err
	} else if n == 0 {
		return 0, domain.ErrConflict
	}

	if _, err := tx.ExecContext(ctx, updateRoomStatusSQL, string(domain.RoomCleaning), roomID); err != nil {
		return 0, err
	}

	ires, err := tx.ExecContext(ctx, insertInvoiceSQL,
		inv.BookingID, inv.CustomerID, inv.CheckOut,
		inv.RoomTotal, inv.ServiceTotal, inv.GrandTotal,
		string(inv.PaymentStatus), valStr(inv.Note))
	if err != nil {
		return 0, err
	}
	id, err := ires.LastInsertId()
	if err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

func (r *Repo) ListOccupancy(ctx context.Context) ([]domain.OccupancyRow, error) {
	rows, err := r.db.QueryContext(ctx, listOccupancySQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.OccupancyRow
	for rows.Next() {
		var o domain.OccupancyRow
		if err := rows.Scan(&o.BookingID, &o.RoomNumber, &o.RoomFloor, &o.RoomTypeName,
			&o.CustomerName, &o.CheckIn); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// -----------------------------------------------------------------------------
// Service usage
// -----------------------------------------------------------------------------

func (r *Repo) AddServiceUsage(ctx context.Context, u domain.ServiceUsage) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertServiceUsageSQL,
		u.BookingID, u.ServiceID, u.Quantity, u.UnitPrice, u.UsedAt, valStr(u.Note))
	if err != nil {
		return 0, mapWriteErr(err)
	}
	return res.LastInsertId()
}

func (r *Repo) ListServiceUsage(ctx context.Context, bookingID int64) ([]domain.ServiceUsageView, error) {
	rows, err := r.db.QueryContext(ctx, listServiceUsageSQL, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ServiceUsageView
	for rows.Next() {
		var v domain.ServiceUsageView
		var note sql.NullString
		if err := rows.Scan(&v.ID, &v.BookingID, &v.ServiceID, &v.Quantity, &v.UnitPrice,
			&v.UsedAt, &note, &v.ServiceName); err != nil {
			return nil, err
		}
		v.Note = strPtr(note)
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *Repo) ServiceUsageTotal(ctx context.Context, bookingID int64) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, serviceUsageTotalSQL, bookingID).Scan(&total)
	return total, err
}

// -----------------------------------------------------------------------------
// Invoices
// -----------------------------------------------------------------------------

func scanInvoiceView(sc interface{ Scan(...any) error }) (domain.InvoiceView, error) {
	var iv domain.InvoiceView
	var method, note sql.NullString
	var status string
	err := sc.Scan(&iv.ID, &iv.BookingID, &iv.CustomerID, &iv.CheckOut,
		&iv.RoomTotal, &iv.ServiceTotal, &iv.GrandTotal,
		&method, &status, &note, &iv.CreatedAt, &iv.UpdatedAt,
		&iv.CustomerName, &iv.CustomerNationalID,
		&iv.RoomNumber, &iv.RoomFloor,
		&iv.RoomTypeName,
		&iv.CheckIn)
	iv.PaymentMethod = strPtr(method)
	iv.PaymentStatus = domain.PaymentStatus(status)
	iv.Note = strPtr(note)
	return iv, err
}

func (r *Repo) ListInvoices(ctx context.Context) ([]domain.InvoiceView, error) {
	rows, err := r.db.QueryContext(ctx, listInvoicesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.InvoiceView
	for rows.Next() {
		iv, err := scanInvoiceView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, rows.Err()
}

func (r *Repo) GetInvoice(ctx context.Context, id int64) (domain.InvoiceView, error) {
	iv, err := scanInvoiceView(r.db.QueryRowContext(ctx, getInvoiceSQL, id))
	if err == sql.ErrNoRows {
		return domain.InvoiceView{}, domain.ErrNotFound
	}
	return iv, err
}

func (r *Repo) UpdateInvoicePayment(ctx context.Context, id int64, method *string, st domain.PaymentStatus, note *string) error {
	res, err := r.db.ExecContext(ctx, updateInvoicePaymentSQL, valStr(method), string(st), valStr(note), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *Repo) RevenueStats(ctx context.Context, from, to *time.Time) (domain.RevenueStats, error) {
	var s domain.RevenueStats
	err := r.db.QueryRowContext(ctx, revenueStatsSQL,
		valTime(from), valTime(from), valTime(to), valTime(to)).
		Scan(&s.InvoiceCount, &s.Revenue, &s.RoomRevenue, &s.ServiceTotal, &s.PaidCount, &s.UnpaidCount)
	return s, err
}

// -----------------------------------------------------------------------------
// Staff
// -----------------------------------------------------------------------------

func scanStaff(sc interface{ Scan(...any) error }) (domain.Staff, error) {
	var st domain.Staff
	var email, phone sql.NullString
	var role string
	err := sc.Scan(&st.ID, &st.FullName, &st.Username, &st.PasswordHash, &email, &phone, &role,
		&st.CreatedAt, &st.UpdatedAt)
	st.Email, st.Phone = strPtr(email), strPtr(phone)
	st.Role = domain.StaffRole(role)
	return st, err
}

func (r *Repo) GetStaffByUsername(ctx context.Context, username string) (domain.Staff, error) {
	st, err := scanStaff(r.db.QueryRowContext(ctx, getStaffByUsernameSQL, username))
	if err == sql.ErrNoRows {
		return domain.Staff{}, domain.ErrNotFound
	}
	return st, err
}

func (r *Repo) GetStaff(ctx context.Context, id int64) (domain.Staff, error) {
	st, err := scanStaff(r.db.QueryRowContext(ctx, getStaffSQL, id))
	if err == sql.ErrNoRows {
		return domain.Staff{}, domain.ErrNotFound
	}
	return st, err
}

func (r *Repo) CreateStaff(ctx context.Context, s domain.Staff) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertStaffSQL,
		s.FullName, s.Username, s.PasswordHash, valStr(s.Email), valStr(s.Phone), string(s.Role))
	if err != nil {
		return 0, mapWriteErr(err)
	}
	return res.LastInsertId()
}
