package domain

import (
	"time"

	"github.com/google/uuid"
)

const MaxSpecialRequestsLen = 500

func NewReservation(customerID, restaurantID, tableID uuid.UUID, scheduledAt time.Time, partySize int, specialRequests string) Reservation {
	now := time.Now()
	return Reservation{
		ID:              uuid.New(),
		CustomerID:      customerID,
		RestaurantID:    restaurantID,
		TableID:         tableID,
		ScheduledAt:     scheduledAt,
		PartySize:       partySize,
		SpecialRequests: specialRequests,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Touch bumps UpdatedAt. Every mutation goes through here before persisting.
func (r *Reservation) Touch() {
	r.UpdatedAt = time.Now()
}

// Active reports whether the reservation still blocks its table,
// i.e. any status other than CANCELLED.
func (r *Reservation) Active() bool {
	return r.Status != StatusCancelled
}
