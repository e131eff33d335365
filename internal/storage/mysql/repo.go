package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"hotel_desk/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ---- nullable helpers ----

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// isDuplicate reports MySQL error 1062 (duplicate entry on a unique key).
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

func mapWriteErr(err error) error {
	if isDuplicate(err) {
		return domain.ErrConflict
	}
	return err
}

// -----------------------------------------------------------------------------
// Room types
// -----------------------------------------------------------------------------

func (r *Repo) ListRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	rows, err := r.db.QueryContext(ctx, listRoomTypesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RoomType
	for rows.Next() {
		var rt domain.RoomType
		if err := rows.Scan(&rt.ID, &rt.Name,
			&rt.Rates.FirstHour, &rt.Rates.ExtraHour, &rt.Rates.Overnight, &rt.Rates.Daily,
			&rt.CreatedAt, &rt.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (r *Repo) GetRoomType(ctx context.Context, id int64) (domain.RoomType, error) {
	var rt domain.RoomType
	err := r.db.QueryRowContext(ctx, getRoomTypeSQL, id).Scan(&rt.ID, &rt.Name,
		&rt.Rates.FirstHour, &rt.Rates.ExtraHour, &rt.Rates.Overnight, &rt.Rates.Daily,
		&rt.CreatedAt, &rt.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.RoomType{}, domain.ErrNotFound
	}
	return rt, err
}

func (r *Repo) CreateRoomType(ctx context.Context, rt domain.RoomType) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertRoomTypeSQL,
		rt.Name, rt.Rates.FirstHour, rt.Rates.ExtraHour, rt.Rates.Overnight, rt.Rates.Daily)
	if err != nil {
		return 0, mapWriteErr(err)
	}
	return res.LastInsertId()
}

func (r *Repo) UpdateRoomType(ctx context.Context, rt domain.RoomType) error {
	res, err := r.db.ExecContext(ctx, updateRoomTypeSQL,
		rt.Name, rt.Rates.FirstHour, rt.Rates.ExtraHour, rt.Rates.Overnight, rt.Rates.Daily, rt.ID)
	if err != nil {
		return mapWriteErr(err)
	}
	return requireRow(res)
}

// DeleteRoomType refuses while rooms still reference the type.
func (r *Repo) DeleteRoomType(ctx context.Context, id int64) error {
	var n int
	if err := r.db.QueryRowContext(ctx, countRoomsOfTypeSQL, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConflict
	}
	res, err := r.db.ExecContext(ctx, deleteRoomTypeSQL, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// -----------------------------------------------------------------------------
// Rooms
// -----------------------------------------------------------------------------

func scanRoomView(sc interface{ Scan(...any) error }) (domain.RoomView, error) {
	var rv domain.RoomView
	var status string
	err := sc.Scan(&rv.ID, &rv.Number, &rv.Floor, &rv.RoomTypeID, &status,
		&rv.CreatedAt, &rv.UpdatedAt, &rv.RoomTypeName)
	rv.Status = domain.RoomStatus(status)
	return rv, err
}

func (r *Repo) listRooms(ctx context.Context, query string) ([]domain.RoomView, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RoomView
	for rows.Next() {
		rv, err := scanRoomView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) ListRooms(ctx context.Context) ([]domain.RoomView, error) {
	return r.listRooms(ctx, listRoomsSQL)
}

func (r *Repo) ListAvailableRooms(ctx context.Context) ([]domain.RoomView, error) {
	return r.listRooms(ctx, listAvailableRoomsSQL)
}

func (r *Repo) GetRoom(ctx context.Context, id int64) (domain.RoomView, error) {
	rv, err := scanRoomView(r.db.QueryRowContext(ctx, getRoomSQL, id))
	if err == sql.ErrNoRows {
		return domain.RoomView{}, domain.ErrNotFound
	}
	return rv, err
}

func (r *Repo) CreateRoom(ctx context.Context, room domain.Room) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertRoomSQL,
		room.Number, room.Floor, room.RoomTypeID, string(room.Status))
	if err != nil {
		return 0, mapWriteErr(err)
	}
	return res.LastInsertId()
}

func (r *Repo) UpdateRoom(ctx context.Context, room domain.Room) error {
	res, err := r.db.ExecContext(ctx, updateRoomSQL,
		room.Number, room.Floor, room.RoomTypeID, string(room.Status), room.ID)
	if err != nil {
		return mapWriteErr(err)
	}
	return requireRow(res)
}

func (r *Repo) UpdateRoomStatus(ctx context.Context, id int64, st domain.RoomStatus) error {
	res, err := r.db.ExecContext(ctx, updateRoomStatusSQL, string(st), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteRoom refuses while the room has reserved or checked-in bookings.
func (r *Repo) DeleteRoom(ctx context.Context, id int64) error {
	var n int
	if err := r.db.QueryRowContext(ctx, countActiveBookingsForRoomSQL, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConflict
	}
	res, err := r.db.ExecContext(ctx, deleteRoomSQL, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// -----------------------------------------------------------------------------
// Customers
// -----------------------------------------------------------------------------

func (r *Repo) ListCustomers(ctx context.Context, search string) ([]domain.Customer, error) {
	like := "%" + search + "%"
	rows, err := r.db.QueryContext(ctx, listCustomersSQL, search, like, like)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCustomer(sc interface{ Scan(...any) error }) (domain.Customer, error) {
	var c domain.Customer
	var phone, email, addr sql.NullString
	err := sc.Scan(&c.ID, &c.FullName, &c.NationalID, &phone, &email, &addr,
		&c.CreatedAt, &c.UpdatedAt)
	c.Phone, c.Email, c.Address = strPtr(phone), strPtr(email), strPtr(addr)
	return c, err
}

func (r *Repo) GetCustomer(ctx context.Context, id int64) (domain.Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, getCustomerSQL, id))
	if err == sql.ErrNoRows {
		return domain.Customer{}, domain.ErrNotFound
	}
	return c, err
}

func (r *Repo) CreateCustomer(ctx context.Context, c domain.Customer) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertCustomerSQL,
		c.FullName, c.NationalID, valStr(c.Phone), valStr(c.Email), valStr(c.Address))
	if err != nil {
		return 0, mapWriteErr(err)
	}
	return res.LastInsertId()
}

func (r *Repo) UpdateCustomer(ctx context.Context, c domain.Customer) error {
	res, err := r.db.ExecContext(ctx, updateCustomerSQL,
		c.FullName, c.NationalID, valStr(c.Phone), valStr(c.Email), valStr(c.Address), c.ID)
	if err != nil {
		return mapWriteErr(err)
	}
	return requireRow(res)
}

func (r *Repo) DeleteCustomer(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteCustomerSQL, id)
	if err != nil {
		return mapWriteErr(err)
	}
	return requireRow(res)
}

// -----------------------------------------------------------------------------
// Services
// -----------------------------------------------------------------------------

func (r *Repo) ListServices(ctx context.Context) ([]domain.Service, error) {
	rows, err := r.db.QueryContext(ctx, listServicesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Service
	for rows.Next() {
		var s domain.Service
		var desc sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &s.Price, &desc, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.Description = strPtr(desc)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) GetService(ctx context.Context, id int64) (domain.Service, error) {
	var s domain.Service
	var desc sql.NullString
	err := r.db.QueryRowContext(ctx, getServiceSQL, id).
		Scan(&s.ID, &s.Name, &s.Price, &desc, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.Service{}, domain.ErrNotFound
	}
	s.Description = strPtr(desc)
	return s, err
}

func (r *Repo) CreateService(ctx context.Context, s domain.Service) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertServiceSQL, s.Name, s.Price, valStr(s.Description))
	if err != nil {
		return 0, mapWriteErr(err)
	}
	return res.LastInsertId()
}

func (r *Repo) UpdateService(ctx context.Context, s domain.Service) error {
	res, err := r.db.ExecContext(ctx, updateServiceSQL, s.Name, s.Price, valStr(s.Description), s.ID)
	if err != nil {
		return mapWriteErr(err)
	}
	return requireRow(res)
}

// DeleteService refuses once the service appears on any bill.
func (r *Repo) DeleteService(ctx context.Context, id int64) error {
	var n int
	if err := r.db.QueryRowContext(ctx, countUsageOfServiceSQL, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConflict
	}
	res, err := r.db.ExecContext(ctx, deleteServiceSQL, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// requireRow maps "no rows touched" onto domain.ErrNotFound.
// requireRow needs clientFoundRows in the DSN so an update that matches a
// row but changes no column still counts, otherwise an idempotent re-PUT
// would read as not found.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
