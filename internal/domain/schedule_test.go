package domain

import (
	"testing"
	"time"
)

func TestWindowsOverlap(t *testing.T) {
	base := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		aStart time.Time
		aEnd   time.Time
		bStart time.Time
		bEnd   time.Time
		want   bool
	}{
		{
			name:   "identicalWindows",
			aStart: base, aEnd: base.Add(time.Hour),
			bStart: base, bEnd: base.Add(time.Hour),
			want: true,
		},
		{
			name:   "partialOverlap",
			aStart: base, aEnd: base.Add(time.Hour),
			bStart: base.Add(30 * time.Minute), bEnd: base.Add(90 * time.Minute),
			want: true,
		},
		{
			name:   "touchingEndsDoNotOverlap",
			aStart: base, aEnd: base.Add(time.Hour),
			bStart: base.Add(time.Hour), bEnd: base.Add(2 * time.Hour),
			want: false,
		},
		{
			name:   "disjoint",
			aStart: base, aEnd: base.Add(time.Hour),
			bStart: base.Add(3 * time.Hour), bEnd: base.Add(4 * time.Hour),
			want: false,
		},
		{
			name:   "containment",
			aStart: base, aEnd: base.Add(4 * time.Hour),
			bStart: base.Add(time.Hour), bEnd: base.Add(2 * time.Hour),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WindowsOverlap(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
				t.Errorf("WindowsOverlap() = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric.
			if got := WindowsOverlap(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd); got != tt.want {
				t.Errorf("WindowsOverlap() swapped = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithinOperatingHours(t *testing.T) {
	opening := 10 * time.Hour
	closing := 22 * time.Hour

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"middleOfDay", time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC), true},
		{"exactlyOpening", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), true},
		{"exactlyClosing", time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC), true},
		{"beforeOpening", time.Date(2025, 6, 1, 9, 59, 0, 0, time.UTC), false},
		{"afterClosing", time.Date(2025, 6, 1, 22, 0, 1, 0, time.UTC), false},
		{"dateIgnored", time.Date(1999, 1, 15, 12, 30, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithinOperatingHours(tt.at, opening, closing); got != tt.want {
				t.Errorf("WithinOperatingHours(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestDayBounds(t *testing.T) {
	at := time.Date(2025, 6, 1, 19, 42, 13, 0, time.UTC)
	start, end := DayBounds(at)

	if want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("DayBounds() start = %v, want %v", start, want)
	}
	if want := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC); !end.Equal(want) {
		t.Errorf("DayBounds() end = %v, want %v", end, want)
	}
}
