package domain

import "time"

// WindowsOverlap reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect.
func WindowsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ClockDuration returns t's offset from midnight in t's location.
func ClockDuration(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}

// WithinOperatingHours compares t's time of day against daily opening and
// closing offsets, inclusive at both ends. The date part is ignored.
func WithinOperatingHours(t time.Time, opening, closing time.Duration) bool {
	d := ClockDuration(t)
	return d >= opening && d <= closing
}

// DayBounds returns midnight of t's day and the following midnight, in t's
// location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.Add(24 * time.Hour)
}
