package domain

import "errors"

var (
	ErrSerializationFailure = errors.New("serialization failure")

	ErrEntityNotFound          = errors.New("entity not found")
	ErrRestaurantInactive      = errors.New("restaurant is not accepting reservations")
	ErrCapacityExceeded        = errors.New("party size exceeds table capacity")
	ErrPastDateNotAllowed      = errors.New("scheduled time must be in the future")
	ErrOutsideOperatingHours   = errors.New("scheduled time is outside operating hours")
	ErrTableConflict           = errors.New("table is not available for the requested time")
	ErrReservationNotEditable  = errors.New("only pending reservations can be modified")
	ErrInvalidStatusTransition = errors.New("status transition not allowed")
	ErrAlreadyTerminal         = errors.New("reservation is already cancelled or completed")
	ErrInvalidCheckInState     = errors.New("only confirmed reservations can be checked in")
	ErrCheckInWindowExceeded   = errors.New("check-in attempted outside the allowed window")
	ErrInvalidStatus           = errors.New("unknown reservation status")
)
