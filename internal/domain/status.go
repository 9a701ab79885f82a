package domain

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// transitions is the full lifecycle state machine. Statuses absent from a
// state's set are unreachable from it; terminal states allow nothing.
var transitions = map[ReservationStatus]map[ReservationStatus]bool{
	StatusPending:   {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed: {StatusCompleted: true, StatusCancelled: true, StatusNoShow: true},
	StatusCancelled: {},
	StatusCompleted: {},
	StatusNoShow:    {},
}

// Terminal reports whether no further transition is permitted from s.
func (s ReservationStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted || s == StatusNoShow
}

// ValidateTransition checks the state machine without side effects. Callers
// persist the new status only after it succeeds.
func ValidateTransition(current, requested ReservationStatus) error {
	allowed, ok := transitions[current]
	if !ok {
		return errors.Wrapf(ErrInvalidStatus, "%s", current)
	}
	if !allowed[requested] {
		return errors.Wrapf(ErrInvalidStatusTransition, "%s -> %s", current, requested)
	}
	return nil
}

func ParseStatus(raw string) (ReservationStatus, error) {
	s := ReservationStatus(strings.ToUpper(raw))
	if _, ok := transitions[s]; !ok {
		return "", errors.Wrapf(ErrInvalidStatus, "%s", raw)
	}
	return s, nil
}
