package httpserver

import (
	"net/http"

	"hotel_desk/internal/billing"
	"hotel_desk/internal/domain"
)

// Catalog handlers: room types, rooms, customers and services. Straight
// CRUD over the repositories; the desk workflow lives in handlers_desk.go.

// ---- room types ----

type roomTypeReq struct {
	Name  string         `json:"name"`
	Rates billing.Tariff `json:"rates"`
}

func (h *Handlers) listRoomTypes(w http.ResponseWriter, r *http.Request) {
	out, err := h.RoomTypes.ListRoomTypes(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) getRoomType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rt, err := h.RoomTypes.GetRoomType(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeCached(w, r, rt)
}

func (h *Handlers) createRoomType(w http.ResponseWriter, r *http.Request) {
	var req roomTypeReq
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "name is required")
		return
	}
	id, err := h.RoomTypes.CreateRoomType(r.Context(), domain.RoomType{Name: req.Name, Rates: req.Rates})
	if err != nil {
		respondErr(w, err)
		return
	}
	rt, err := h.RoomTypes.GetRoomType(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rt)
}

func (h *Handlers) updateRoomType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req roomTypeReq
	if !decode(w, r, &req) {
		return
	}
	if err := h.RoomTypes.UpdateRoomType(r.Context(), domain.RoomType{ID: id, Name: req.Name, Rates: req.Rates}); err != nil {
		respondErr(w, err)
		return
	}
	rt, err := h.RoomTypes.GetRoomType(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

func (h *Handlers) deleteRoomType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.RoomTypes.DeleteRoomType(r.Context(), id); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- rooms ----

type roomReq struct {
	Number     string `json:"number"`
	Floor      int    `json:"floor"`
	RoomTypeID int64  `json:"room_type_id"`
	Status     string `json:"status"`
}

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	out, err := h.Rooms.ListRooms(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) listAvailableRooms(w http.ResponseWriter, r *http.Request) {
	out, err := h.Rooms.ListAvailableRooms(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) getRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rv, err := h.Rooms.GetRoom(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeCached(w, r, rv)
}

func (h *Handlers) createRoom(w http.ResponseWriter, r *http.Request) {
	var req roomReq
	if !decode(w, r, &req) {
		return
	}
	if req.Number == "" || req.RoomTypeID <= 0 {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "number and room_type_id are required")
		return
	}
	status := domain.RoomStatus(req.Status)
	if req.Status == "" {
		status = domain.RoomAvailable
	}
	if !status.Valid() {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "unknown room status")
		return
	}
	id, err := h.Rooms.CreateRoom(r.Context(), domain.Room{
		Number: req.Number, Floor: req.Floor, RoomTypeID: req.RoomTypeID, Status: status,
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	rv, err := h.Rooms.GetRoom(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rv)
}

func (h *Handlers) updateRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req roomReq
	if !decode(w, r, &req) {
		return
	}
	status := domain.RoomStatus(req.Status)
	if !status.Valid() {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "unknown room status")
		return
	}
	if err := h.Rooms.UpdateRoom(r.Context(), domain.Room{
		ID: id, Number: req.Number, Floor: req.Floor, RoomTypeID: req.RoomTypeID, Status: status,
	}); err != nil {
		respondErr(w, err)
		return
	}
	rv, err := h.Rooms.GetRoom(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rv)
}

// updateRoomStatus covers housekeeping: cleaning done, maintenance on/off.
func (h *Handlers) updateRoomStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if !decode(w, r, &req) {
		return
	}
	status := domain.RoomStatus(req.Status)
	if !status.Valid() {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "unknown room status")
		return
	}
	if err := h.Rooms.UpdateRoomStatus(r.Context(), id, status); err != nil {
		respondErr(w, err)
		return
	}
	rv, err := h.Rooms.GetRoom(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rv)
}

func (h *Handlers) deleteRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Rooms.DeleteRoom(r.Context(), id); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- customers ----

type customerReq struct {
	FullName   string  `json:"full_name"`
	NationalID string  `json:"national_id"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email"`
	Address    *string `json:"address"`
}

func (h *Handlers) listCustomers(w http.ResponseWriter, r *http.Request) {
	out, err := h.Customers.ListCustomers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.Customers.GetCustomer(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeCached(w, r, c)
}

func (h *Handlers) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerReq
	if !decode(w, r, &req) {
		return
	}
	if req.FullName == "" || req.NationalID == "" {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "full_name and national_id are required")
		return
	}
	id, err := h.Customers.CreateCustomer(r.Context(), domain.Customer{
		FullName: req.FullName, NationalID: req.NationalID,
		Phone: req.Phone, Email: req.Email, Address: req.Address,
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	c, err := h.Customers.GetCustomer(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handlers) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req customerReq
	if !decode(w, r, &req) {
		return
	}
	if err := h.Customers.UpdateCustomer(r.Context(), domain.Customer{
		ID: id, FullName: req.FullName, NationalID: req.NationalID,
		Phone: req.Phone, Email: req.Email, Address: req.Address,
	}); err != nil {
		respondErr(w, err)
		return
	}
	c, err := h.Customers.GetCustomer(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handlers) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Customers.DeleteCustomer(r.Context(), id); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- services ----

type serviceReq struct {
	Name        string  `json:"name"`
	Price       int64   `json:"price"`
	Description *string `json:"description"`
}

func (h *Handlers) listServices(w http.ResponseWriter, r *http.Request) {
	out, err := h.Services.ListServices(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) getService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s, err := h.Services.GetService(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeCached(w, r, s)
}

func (h *Handlers) createService(w http.ResponseWriter, r *http.Request) {
	var req serviceReq
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" || req.Price < 0 {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "name is required and price must not be negative")
		return
	}
	id, err := h.Services.CreateService(r.Context(), domain.Service{
		Name: req.Name, Price: req.Price, Description: req.Description,
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	s, err := h.Services.GetService(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

func (h *Handlers) updateService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req serviceReq
	if !decode(w, r, &req) {
		return
	}
	if err := h.Services.UpdateService(r.Context(), domain.Service{
		ID: id, Name: req.Name, Price: req.Price, Description: req.Description,
	}); err != nil {
		respondErr(w, err)
		return
	}
	s, err := h.Services.GetService(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Handlers) deleteService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Services.DeleteService(r.Context(), id); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
