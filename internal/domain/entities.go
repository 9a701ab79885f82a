package domain

import (
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusConfirmed ReservationStatus = "CONFIRMED"
	StatusCancelled ReservationStatus = "CANCELLED"
	StatusCompleted ReservationStatus = "COMPLETED"
	StatusNoShow    ReservationStatus = "NO_SHOW"
)

type TableStatus string

const (
	TableAvailable    TableStatus = "AVAILABLE"
	TableOccupied     TableStatus = "OCCUPIED"
	TableReserved     TableStatus = "RESERVED"
	TableOutOfService TableStatus = "OUT_OF_SERVICE"
)

type Reservation struct {
	ID              uuid.UUID
	CustomerID      uuid.UUID
	RestaurantID    uuid.UUID
	TableID         uuid.UUID
	ScheduledAt     time.Time
	PartySize       int
	SpecialRequests string
	Status          ReservationStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Customer struct {
	ID       uuid.UUID
	Username string
	Email    string
}

type Restaurant struct {
	ID      uuid.UUID
	Name    string
	Address string
	// Daily operating hours as offsets from midnight, local to the restaurant.
	OpeningTime time.Duration
	ClosingTime time.Duration
	Active      bool
}

// RestaurantTable carries a display status for the floor plan. Conflict
// detection never consults it; availability is derived from overlapping
// active reservations.
type RestaurantTable struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Number       int
	Capacity     int
	Status       TableStatus
}
