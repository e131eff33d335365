package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_desk/internal/adapters/auth"
	"hotel_desk/internal/app"
	"hotel_desk/internal/domain"
)

type Handlers struct {
	Desk *app.FrontDeskService
	Q    *app.QueryService
	Auth *app.AuthService

	RoomTypes domain.RoomTypeRepository
	Rooms     domain.RoomRepository
	Customers domain.CustomerRepository
	Services  domain.ServiceRepository
	Bookings  domain.BookingRepository
	Invoices  domain.InvoiceRepository
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// MountHandlers wires the API. Everything under /v1 except login requires
// a staff token (or the internal API key); staff registration, room-type and
// service mutations, and revenue stats are manager-only.
func (s *Server) MountHandlers(h *Handlers, tokens *auth.TokenService, apiKey string) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Post("/v1/auth/login", h.login)

	s.mux.Route("/v1", func(r chi.Router) {
		r.Use(RequireAuth(tokens, apiKey))
		mgr := RequireRole(string(domain.RoleManager))

		r.Get("/auth/me", h.me)
		r.With(mgr).Post("/auth/register", h.register)

		r.Get("/room-types", h.listRoomTypes)
		r.With(mgr).Post("/room-types", h.createRoomType)
		r.Get("/room-types/{id}", h.getRoomType)
		r.With(mgr).Put("/room-types/{id}", h.updateRoomType)
		r.With(mgr).Delete("/room-types/{id}", h.deleteRoomType)

		r.Get("/rooms", h.listRooms)
		r.Post("/rooms", h.createRoom)
		r.Get("/rooms/available", h.listAvailableRooms)
		r.Get("/rooms/{id}", h.getRoom)
		r.Put("/rooms/{id}", h.updateRoom)
		r.Put("/rooms/{id}/status", h.updateRoomStatus)
		r.Delete("/rooms/{id}", h.deleteRoom)

		r.Get("/customers", h.listCustomers)
		r.Post("/customers", h.createCustomer)
		r.Get("/customers/{id}", h.getCustomer)
		r.Put("/customers/{id}", h.updateCustomer)
		r.Delete("/customers/{id}", h.deleteCustomer)

		r.Get("/services", h.listServices)
		r.With(mgr).Post("/services", h.createService)
		r.Get("/services/{id}", h.getService)
		r.With(mgr).Put("/services/{id}", h.updateService)
		r.With(mgr).Delete("/services/{id}", h.deleteService)

		r.Get("/bookings", h.listBookings)
		r.Post("/bookings", h.checkIn)
		r.Get("/bookings/occupancy", h.occupancy)
		r.Get("/bookings/{id}", h.getBooking)
		r.Put("/bookings/{id}", h.updateBooking)
		r.Post("/bookings/{id}/services", h.addService)
		r.Get("/bookings/{id}/services", h.listBookingServices)
		r.Get("/bookings/{id}/total", h.runningTotal)
		r.Post("/bookings/{id}/checkout", h.checkOut)

		r.Get("/invoices", h.listInvoices)
		r.With(mgr).Get("/invoices/stats", h.revenueStats)
		r.Get("/invoices/{id}", h.getInvoice)
		r.Put("/invoices/{id}/payment", h.updateInvoicePayment)
	})
}

// ---- response helpers ----

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// respondErr maps service errors onto problem responses.
func respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, app.ErrInvalidInput):
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, auth.ErrBadCredentials):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "bad credentials")
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached sends v with an ETag, short-circuiting to 304 when the
// client already holds this version.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return false
	}
	return true
}

// ---- auth handlers ----

type staffResp struct {
	ID       int64   `json:"id"`
	FullName string  `json:"full_name"`
	Username string  `json:"username"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Role     string  `json:"role"`
}

func toStaffResp(st domain.Staff) staffResp {
	return staffResp{
		ID: st.ID, FullName: st.FullName, Username: st.Username,
		Email: st.Email, Phone: st.Phone, Role: string(st.Role),
	}
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}
	token, st, err := h.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "staff": toStaffResp(st)})
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string  `json:"full_name"`
		Username string  `json:"username"`
		Password string  `json:"password"`
		Email    *string `json:"email"`
		Phone    *string `json:"phone"`
		Role     string  `json:"role"`
	}
	if !decode(w, r, &req) {
		return
	}
	st, err := h.Auth.Register(r.Context(), domain.Staff{
		FullName: req.FullName, Username: req.Username,
		Email: req.Email, Phone: req.Phone, Role: domain.StaffRole(req.Role),
	}, req.Password)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toStaffResp(st))
}

func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFrom(r)
	if claims == nil {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "no staff identity on this request")
		return
	}
	st, err := h.Auth.Me(r.Context(), claims.StaffID)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStaffResp(st))
}
