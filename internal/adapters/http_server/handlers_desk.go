package httpserver

import (
	"net/http"
	"time"

	"hotel_desk/internal/app"
	"hotel_desk/internal/domain"
)

// Desk handlers: the stay lifecycle from check-in to invoice.

type bookingReq struct {
	CustomerID       int64      `json:"customer_id"`
	RoomID           int64      `json:"room_id"`
	CheckIn          *time.Time `json:"check_in"`
	ExpectedCheckOut *time.Time `json:"expected_check_out"`
	Status           string     `json:"status"`
	Note             *string    `json:"note"`
}

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	out, err := h.Bookings.ListBookings(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	bv, err := h.Bookings.GetBooking(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	usage, err := h.Bookings.ListServiceUsage(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeCached(w, r, map[string]any{"booking": bv, "services": usage})
}

func (h *Handlers) checkIn(w http.ResponseWriter, r *http.Request) {
	var req bookingReq
	if !decode(w, r, &req) {
		return
	}
	if req.CustomerID <= 0 || req.RoomID <= 0 {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "customer_id and room_id are required")
		return
	}
	b := domain.Booking{
		CustomerID:       req.CustomerID,
		RoomID:           req.RoomID,
		ExpectedCheckOut: req.ExpectedCheckOut,
		Status:           domain.BookingStatus(req.Status),
		Note:             req.Note,
	}
	if req.CheckIn != nil {
		b.CheckIn = req.CheckIn.UTC()
	}
	bv, err := h.Desk.CheckIn(r.Context(), b)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bv)
}

func (h *Handlers) updateBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req bookingReq
	if !decode(w, r, &req) {
		return
	}
	b := domain.Booking{
		ID:               id,
		CustomerID:       req.CustomerID,
		RoomID:           req.RoomID,
		ExpectedCheckOut: req.ExpectedCheckOut,
		Status:           domain.BookingStatus(req.Status),
		Note:             req.Note,
	}
	if req.CheckIn != nil {
		b.CheckIn = req.CheckIn.UTC()
	}
	bv, err := h.Desk.UpdateBooking(r.Context(), b)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bv)
}

func (h *Handlers) addService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		ServiceID int64   `json:"service_id"`
		Quantity  int64   `json:"quantity"`
		Note      *string `json:"note"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	u, err := h.Desk.AddService(r.Context(), id, req.ServiceID, req.Quantity, req.Note)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *Handlers) listBookingServices(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, err := h.Bookings.GetBooking(r.Context(), id); err != nil {
		respondErr(w, err)
		return
	}
	out, err := h.Bookings.ListServiceUsage(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) runningTotal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	bill, err := h.Desk.RunningTotal(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bill)
}

func (h *Handlers) checkOut(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		CheckOut      *time.Time `json:"check_out"`
		PaymentStatus string     `json:"payment_status"`
		Note          *string    `json:"note"`
	}
	if !decode(w, r, &req) {
		return
	}
	inv, bill, err := h.Desk.CheckOut(r.Context(), id, app.CheckOutInput{
		CheckOut:      req.CheckOut,
		PaymentStatus: domain.PaymentStatus(req.PaymentStatus),
		Note:          req.Note,
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"invoice": inv, "bill": bill})
}

func (h *Handlers) occupancy(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.Occupancy(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	writeCached(w, r, out)
}

// ---- invoices ----

func (h *Handlers) listInvoices(w http.ResponseWriter, r *http.Request) {
	out, err := h.Invoices.ListInvoices(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) getInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	iv, err := h.Invoices.GetInvoice(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	bill, err := h.Desk.Bill(r.Context(), iv.BookingID, iv.CheckOut)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeCached(w, r, map[string]any{"invoice": iv, "bill": bill})
}

func (h *Handlers) updateInvoicePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		PaymentMethod *string `json:"payment_method"`
		PaymentStatus string  `json:"payment_status"`
		Note          *string `json:"note"`
	}
	if !decode(w, r, &req) {
		return
	}
	status := domain.PaymentStatus(req.PaymentStatus)
	if !status.Valid() {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "unknown payment status")
		return
	}
	if err := h.Invoices.UpdateInvoicePayment(r.Context(), id, req.PaymentMethod, status, req.Note); err != nil {
		respondErr(w, err)
		return
	}
	iv, err := h.Invoices.GetInvoice(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, iv)
}

// ---- stats ----

// revenueStats accepts from/to as YYYY-MM-DD; to is inclusive through the
// end of that day.
func (h *Handlers) revenueStats(w http.ResponseWriter, r *http.Request) {
	var from, to *time.Time
	if fs := r.URL.Query().Get("from"); fs != "" {
		t, err := time.Parse("2006-01-02", fs)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Bad Request", "from must be YYYY-MM-DD")
			return
		}
		from = &t
	}
	if ts := r.URL.Query().Get("to"); ts != "" {
		t, err := time.Parse("2006-01-02", ts)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Bad Request", "to must be YYYY-MM-DD")
			return
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	st, err := h.Q.RevenueStats(r.Context(), from, to)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
