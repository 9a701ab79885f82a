package domain

import (
	"errors"
	"testing"
)

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		name    string
		current ReservationStatus
		next    ReservationStatus
		wantErr error
	}{
		{"pendingToConfirmed", StatusPending, StatusConfirmed, nil},
		{"pendingToCancelled", StatusPending, StatusCancelled, nil},
		{"pendingToCompleted", StatusPending, StatusCompleted, ErrInvalidStatusTransition},
		{"pendingToNoShow", StatusPending, StatusNoShow, ErrInvalidStatusTransition},
		{"confirmedToCompleted", StatusConfirmed, StatusCompleted, nil},
		{"confirmedToCancelled", StatusConfirmed, StatusCancelled, nil},
		{"confirmedToNoShow", StatusConfirmed, StatusNoShow, nil},
		{"confirmedToPending", StatusConfirmed, StatusPending, ErrInvalidStatusTransition},
		{"cancelledIsTerminal", StatusCancelled, StatusConfirmed, ErrInvalidStatusTransition},
		{"completedIsTerminal", StatusCompleted, StatusCancelled, ErrInvalidStatusTransition},
		{"noShowIsTerminal", StatusNoShow, StatusConfirmed, ErrInvalidStatusTransition},
		{"selfTransitionRejected", StatusPending, StatusPending, ErrInvalidStatusTransition},
		{"unknownCurrent", ReservationStatus("SEATED"), StatusConfirmed, ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransition(tt.current, tt.next)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateTransition(%s, %s) = %v, want nil", tt.current, tt.next, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateTransition(%s, %s) = %v, want %v", tt.current, tt.next, err, tt.wantErr)
			}
		})
	}
}

func TestTerminal(t *testing.T) {
	tests := []struct {
		status ReservationStatus
		want   bool
	}{
		{StatusPending, false},
		{StatusConfirmed, false},
		{StatusCancelled, true},
		{StatusCompleted, true},
		{StatusNoShow, true},
	}

	for _, tt := range tests {
		if got := tt.status.Terminal(); got != tt.want {
			t.Errorf("%s.Terminal() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus("confirmed")
	if err != nil || got != StatusConfirmed {
		t.Errorf("ParseStatus(confirmed) = %v, %v", got, err)
	}
	if _, err := ParseStatus("SEATED"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("ParseStatus(SEATED) err = %v, want ErrInvalidStatus", err)
	}
}
