package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mongoadapter "github.com/innova/restaurant-reservations/internal/adapters/mongo"
	"github.com/innova/restaurant-reservations/internal/config"
	"github.com/innova/restaurant-reservations/internal/domain"
	"github.com/innova/restaurant-reservations/internal/idempotency"
	"github.com/innova/restaurant-reservations/internal/reservation"
)

type Handlers struct {
	cfg      *config.Config
	svc      *reservation.Service
	idemp    *idempotency.Idempotency
	activity *mongoadapter.ActivityLogger
	reviews  *mongoadapter.ReviewRepository
}

func NewHandlers(cfg *config.Config, svc *reservation.Service, idemp *idempotency.Idempotency, activity *mongoadapter.ActivityLogger, reviews *mongoadapter.ReviewRepository) *Handlers {
	return &Handlers{
		cfg:      cfg,
		svc:      svc,
		idemp:    idemp,
		activity: activity,
		reviews:  reviews,
	}
}

type reservationResponse struct {
	ID              uuid.UUID `json:"id"`
	CustomerID      uuid.UUID `json:"customer_id"`
	RestaurantID    uuid.UUID `json:"restaurant_id"`
	TableID         uuid.UUID `json:"table_id"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	PartySize       int       `json:"party_size"`
	SpecialRequests string    `json:"special_requests,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toResponse(r domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:              r.ID,
		CustomerID:      r.CustomerID,
		RestaurantID:    r.RestaurantID,
		TableID:         r.TableID,
		ScheduledAt:     r.ScheduledAt,
		PartySize:       r.PartySize,
		SpecialRequests: r.SpecialRequests,
		Status:          string(r.Status),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func toResponses(rs []domain.Reservation) []reservationResponse {
	out := make([]reservationResponse, len(rs))
	for i, r := range rs {
		out[i] = toResponse(r)
	}
	return out
}

// writeDomainError maps the reservation error taxonomy onto HTTP codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrEntityNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrTableConflict),
		errors.Is(err, domain.ErrSerializationFailure):
		http.Error(w, "table not available, try another time", http.StatusConflict)
	case errors.Is(err, domain.ErrRestaurantInactive),
		errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrPastDateNotAllowed),
		errors.Is(err, domain.ErrOutsideOperatingHours),
		errors.Is(err, domain.ErrReservationNotEditable),
		errors.Is(err, domain.ErrInvalidStatusTransition),
		errors.Is(err, domain.ErrAlreadyTerminal),
		errors.Is(err, domain.ErrInvalidCheckInState),
		errors.Is(err, domain.ErrCheckInWindowExceeded):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, domain.ErrInvalidStatus):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) []byte {
	data, _ := json.Marshal(v)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
	return data
}

func urlUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

func (h *Handlers) CreateReservation(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get("Idempotency-Key")
	existing, err := h.idemp.Get(r.Context(), key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if existing != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(existing.Status)
		w.Write(existing.Result)
		return
	}

	var req struct {
		CustomerID      uuid.UUID `json:"customer_id"`
		RestaurantID    uuid.UUID `json:"restaurant_id"`
		TableID         uuid.UUID `json:"table_id"`
		ScheduledAt     time.Time `json:"scheduled_at"`
		PartySize       int       `json:"party_size"`
		SpecialRequests string    `json:"special_requests"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.PartySize < 1 {
		http.Error(w, "party_size must be positive", http.StatusBadRequest)
		return
	}
	if len(req.SpecialRequests) > domain.MaxSpecialRequestsLen {
		http.Error(w, "special_requests too long", http.StatusBadRequest)
		return
	}

	res, err := h.svc.Create(r.Context(), req.CustomerID, req.RestaurantID, req.TableID,
		req.ScheduledAt, req.PartySize, req.SpecialRequests)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.activity.LogReservation(r.Context(), "reservation.created", *res)

	data := writeJSON(w, http.StatusCreated, toResponse(*res))
	h.idemp.Set(r.Context(), key, idempotency.Response{Status: http.StatusCreated, Result: data})
}

func (h *Handlers) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req struct {
		ScheduledAt     *time.Time `json:"scheduled_at"`
		PartySize       *int       `json:"party_size"`
		SpecialRequests *string    `json:"special_requests"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.PartySize != nil && *req.PartySize < 1 {
		http.Error(w, "party_size must be positive", http.StatusBadRequest)
		return
	}
	if req.SpecialRequests != nil && len(*req.SpecialRequests) > domain.MaxSpecialRequestsLen {
		http.Error(w, "special_requests too long", http.StatusBadRequest)
		return
	}

	res, err := h.svc.Update(r.Context(), id, reservation.UpdateParams{
		ScheduledAt:     req.ScheduledAt,
		PartySize:       req.PartySize,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.activity.LogReservation(r.Context(), "reservation.updated", *res)
	writeJSON(w, http.StatusOK, toResponse(*res))
}

func (h *Handlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	res, err := h.svc.UpdateStatus(r.Context(), id, status)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.activity.LogReservation(r.Context(), "reservation.status_changed", *res)
	writeJSON(w, http.StatusOK, toResponse(*res))
}

func (h *Handlers) ConfirmReservation(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "reservation.confirmed", h.svc.Confirm)
}

func (h *Handlers) CheckInReservation(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "reservation.checked_in", h.svc.CheckIn)
}

func (h *Handlers) CancelReservation(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "reservation.cancelled", h.svc.Cancel)
}

func (h *Handlers) transition(w http.ResponseWriter, r *http.Request, action string, op func(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)) {
	id, err := urlUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	res, err := op(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.activity.LogReservation(r.Context(), action, *res)
	writeJSON(w, http.StatusOK, toResponse(*res))
}

func (h *Handlers) GetReservation(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	res, err := h.svc.FindByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(*res))
}

func (h *Handlers) ListReservations(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.FindAll(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponses(list))
}

func (h *Handlers) ListCustomerReservations(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	list, err := h.svc.FindByCustomer(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponses(list))
}

// ListRestaurantReservations serves the restaurant's reservation lists:
// ?today=true for the current day, ?from/?to for a range, ?status to filter.
func (h *Handlers) ListRestaurantReservations(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	q := r.URL.Query()

	if q.Get("today") == "true" {
		list, err := h.svc.FindToday(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponses(list))
		return
	}

	if q.Get("from") != "" || q.Get("to") != "" {
		from, err := time.Parse(time.RFC3339, q.Get("from"))
		if err != nil {
			http.Error(w, "invalid from", http.StatusBadRequest)
			return
		}
		to, err := time.Parse(time.RFC3339, q.Get("to"))
		if err != nil {
			http.Error(w, "invalid to", http.StatusBadRequest)
			return
		}
		list, err := h.svc.FindByDateRange(r.Context(), id, from, to)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponses(list))
		return
	}

	var status *domain.ReservationStatus
	if raw := q.Get("status"); raw != "" {
		parsed, err := domain.ParseStatus(raw)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		status = &parsed
	}
	list, err := h.svc.FindByRestaurant(r.Context(), id, status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponses(list))
}

func (h *Handlers) AddReview(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req struct {
		CustomerID uuid.UUID `json:"customer_id"`
		Rating     int       `json:"rating"`
		Comment    string    `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		http.Error(w, "rating must be between 1 and 5", http.StatusBadRequest)
		return
	}

	review := mongoadapter.ReviewDoc{
		RestaurantID: id,
		CustomerID:   req.CustomerID,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}
	if err := h.reviews.Add(r.Context(), review); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handlers) ListReviews(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	reviews, err := h.reviews.ListByRestaurant(r.Context(), id, 50)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handlers) Readyz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}
