package mysql

// -----------------------------------------------------------------------------
// ROOM TYPES
// -----------------------------------------------------------------------------

const listRoomTypesSQL = `
SELECT id, name, first_hour_rate, extra_hour_rate, overnight_rate, daily_rate, created_at, updated_at
FROM room_types
ORDER BY id`

const getRoomTypeSQL = `
SELECT id, name, first_hour_rate, extra_hour_rate, overnight_rate, daily_rate, created_at, updated_at
FROM room_types
WHERE id = ?`

const insertRoomTypeSQL = `
INSERT INTO room_types (name, first_hour_rate, extra_hour_rate, overnight_rate, daily_rate)
VALUES (?, ?, ?, ?, ?)`

const updateRoomTypeSQL = `
UPDATE room_types
SET name = ?, first_hour_rate = ?, extra_hour_rate = ?, overnight_rate = ?, daily_rate = ?,
    updated_at = CURRENT_TIMESTAMP
WHERE id = ?`

const countRoomsOfTypeSQL = `SELECT COUNT(*) FROM rooms WHERE room_type_id = ?`

const deleteRoomTypeSQL = `DELETE FROM room_types WHERE id = ?`

// -----------------------------------------------------------------------------
// ROOMS
// -----------------------------------------------------------------------------

// Rooms are always listed joined with their type name, ordered the way the
// front desk reads the board: floor, then number.
const listRoomsSQL = `
SELECT r.id, r.number, r.floor, r.room_type_id, r.status, r.created_at, r.updated_at, rt.name
FROM rooms r
JOIN room_types rt ON rt.id = r.room_type_id
ORDER BY r.floor, r.number`

const listAvailableRoomsSQL = `
SELECT r.id, r.number, r.floor, r.room_type_id, r.status, r.created_at, r.updated_at, rt.name
FROM rooms r
JOIN room_types rt ON rt.id = r.room_type_id
WHERE r.status = 'available'
ORDER BY r.floor, r.number`

const getRoomSQL = `
SELECT r.id, r.number, r.floor, r.room_type_id, r.status, r.created_at, r.updated_at, rt.name
FROM rooms r
JOIN room_types rt ON rt.id = r.room_type_id
WHERE r.id = ?`

const insertRoomSQL = `
INSERT INTO rooms (number, floor, room_type_id, status)
VALUES (?, ?, ?, ?)`

const updateRoomSQL = `
UPDATE rooms
SET number = ?, floor = ?, room_type_id = ?, status = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?`

const updateRoomStatusSQL = `
UPDATE rooms SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

const countActiveBookingsForRoomSQL = `
SELECT COUNT(*) FROM bookings
WHERE room_id = ? AND status IN ('reserved', 'checked_in')`

const deleteRoomSQL = `DELETE FROM rooms WHERE id = ?`

// -----------------------------------------------------------------------------
// CUSTOMERS
// -----------------------------------------------------------------------------

const listCustomersSQL = `
SELECT id, full_name, national_id, phone, email, address, created_at, updated_at
FROM customers
WHERE (? = '' OR full_name LIKE ? OR national_id LIKE ?)
ORDER BY id`

const getCustomerSQL = `
SELECT id, full_name, national_id, phone, email, address, created_at, updated_at
FROM customers
WHERE id = ?`

const insertCustomerSQL = `
INSERT INTO customers (full_name, national_id, phone, email, address)
VALUES (?, ?, ?, ?, ?)`

const updateCustomerSQL = `
UPDATE customers
SET full_name = ?, national_id = ?, phone = ?, email = ?, address = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?`

const deleteCustomerSQL = `DELETE FROM customers WHERE id = ?`

// -----------------------------------------------------------------------------
// SERVICES
// -----------------------------------------------------------------------------

const listServicesSQL = `
SELECT id, name, price, description, created_at, updated_at FROM services ORDER BY id`

const getServiceSQL = `
SELECT id, name, price, description, created_at, updated_at FROM services WHERE id = ?`

const insertServiceSQL = `INSERT INTO services (name, price, description) VALUES (?, ?, ?)`

const updateServiceSQL = `
UPDATE services SET name = ?, price = ?, description = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

const countUsageOfServiceSQL = `SELECT COUNT(*) FROM service_usage WHERE service_id = ?`

const deleteServiceSQL = `DELETE FROM services WHERE id = ?`

// -----------------------------------------------------------------------------
// BOOKINGS
// -----------------------------------------------------------------------------

const bookingViewColumns = `
  b.id, b.customer_id, b.room_id, b.check_in, b.expected_check_out, b.status, b.note,
  b.created_at, b.updated_at,
  c.full_name, c.national_id,
  r.number, r.floor,
  rt.name`

const listBookingsSQL = `
SELECT` + bookingViewColumns + `
FROM bookings b
JOIN customers c ON b.customer_id = c.id
JOIN rooms r ON b.room_id = r.id
JOIN room_types rt ON r.room_type_id = rt.id
ORDER BY b.check_in DESC`

const getBookingSQL = `
SELECT` + bookingViewColumns + `
FROM bookings b
JOIN customers c ON b.customer_id = c.id
JOIN rooms r ON b.room_id = r.id
JOIN room_types rt ON r.room_type_id = rt.id
WHERE b.id = ?`

const insertBookingSQL = `
INSERT INTO bookings (customer_id, room_id, check_in, expected_check_out, status, note)
VALUES (?, ?, ?, ?, ?, ?)`

const updateBookingSQL = `
UPDATE bookings
SET customer_id = ?, room_id = ?, check_in = ?, expected_check_out = ?, status = ?, note = ?,
    updated_at = CURRENT_TIMESTAMP
WHERE id = ?`

const roomStatusForUpdateSQL = `SELECT status FROM rooms WHERE id = ? FOR UPDATE`

const bookingForUpdateSQL = `SELECT room_id, status FROM bookings WHERE id = ? FOR UPDATE`

// Guarded by status so concurrent checkouts of the same booking cannot both
// cut an invoice.
const checkoutBookingSQL = `
UPDATE bookings
SET status = 'checked_out', updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND status = 'checked_in'`

// Occupancy board: everyone currently checked in, by floor and room.
const listOccupancySQL = `
SELECT b.id, r.number, r.floor, rt.name, c.full_name, b.check_in
FROM bookings b
JOIN customers c ON b.customer_id = c.id
JOIN rooms r ON b.room_id = r.id
JOIN room_types rt ON r.room_type_id = rt.id
WHERE b.status = 'checked_in'
ORDER BY r.floor, r.number`

// -----------------------------------------------------------------------------
// SERVICE USAGE
// -----------------------------------------------------------------------------

const insertServiceUsageSQL = `
INSERT INTO service_usage (booking_id, service_id, quantity, unit_price, used_at, note)
VALUES (?, ?, ?, ?, ?, ?)`

const listServiceUsageSQL = `
SELECT su.id, su.booking_id, su.service_id, su.quantity, su.unit_price, su.used_at, su.note, s.name
FROM service_usage su
JOIN services s ON su.service_id = s.id
WHERE su.booking_id = ?
ORDER BY su.used_at`

const serviceUsageTotalSQL = `
SELECT COALESCE(SUM(unit_price * quantity), 0) FROM service_usage WHERE booking_id = ?`

// -----------------------------------------------------------------------------
// INVOICES
// -----------------------------------------------------------------------------

const invoiceViewColumns = `
  i.id, i.booking_id, i.customer_id, i.check_out, i.room_total, i.service_total, i.grand_total,
  i.payment_method, i.payment_status, i.note, i.created_at, i.updated_at,
  c.full_name, c.national_id,
  r.number, r.floor,
  rt.name,
  b.check_in`

const listInvoicesSQL = `
SELECT` + invoiceViewColumns + `
FROM invoices i
JOIN customers c ON i.customer_id = c.id
JOIN bookings b ON i.booking_id = b.id
JOIN rooms r ON b.room_id = r.id
JOIN room_types rt ON r.room_type_id = rt.id
ORDER BY i.check_out DESC`

const getInvoiceSQL = `
SELECT` + invoiceViewColumns + `
FROM invoices i
JOIN customers c ON i.customer_id = c.id
JOIN bookings b ON i.booking_id = b.id
JOIN rooms r ON b.room_id = r.id
JOIN room_types rt ON r.room_type_id = rt.id
WHERE i.id = ?`

const insertInvoiceSQL = `
INSERT INTO invoices
  (booking_id, customer_id, check_out, room_total, service_total, grand_total, payment_status, note)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

const updateInvoicePaymentSQL = `
UPDATE invoices
SET payment_method = ?, payment_status = ?, note = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?`

const revenueStatsSQL = `
SELECT
  COUNT(*),
  COALESCE(SUM(grand_total), 0),
  COALESCE(SUM(room_total), 0),
  COALESCE(SUM(service_total), 0),
  COUNT(CASE WHEN payment_status = 'paid' THEN 1 END),
  COUNT(CASE WHEN payment_status = 'unpaid' THEN 1 END)
FROM invoices
WHERE (? IS NULL OR check_out >= ?) AND (? IS NULL OR check_out <= ?)`

// -----------------------------------------------------------------------------
// STAFF
// -----------------------------------------------------------------------------

const getStaffByUsernameSQL = `
SELECT id, full_name, username, password_hash, email, phone, role, created_at, updated_at
FROM staff
WHERE username = ?`

const getStaffSQL = `
SELECT id, full_name, username, password_hash, email, phone, role, created_at, updated_at
FROM staff
WHERE id = ?`

const insertStaffSQL = `
INSERT INTO staff (full_name, username, password_hash, email, phone, role)
VALUES (?, ?, ?, ?, ?, ?)`
