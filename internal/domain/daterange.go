package domain

import "time"

// DateRange is a half-open [Start, End) range of UTC calendar days.
// Both bounds are normalized to UTC midnight so that day iteration and
// comparison are exact across timezones and DST boundaries.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NormalizeDay truncates t to UTC midnight.
func NormalizeDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewDateRange normalizes both bounds and validates End > Start.
func NewDateRange(start, end time.Time) (DateRange, error) {
	rng := DateRange{Start: NormalizeDay(start), End: NormalizeDay(end)}
	if !rng.End.After(rng.Start) {
		return DateRange{}, Validationf("end date %s must be after start date %s",
			rng.End.Format("2006-01-02"), rng.Start.Format("2006-01-02"))
	}
	return rng, nil
}

// Days returns every calendar day in [Start, End).
func (r DateRange) Days() []time.Time {
	var days []time.Time
	for d := r.Start; d.Before(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Nights is the number of calendar days in the range.
func (r DateRange) Nights() int {
	n := 0
	for d := r.Start; d.Before(r.End); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

// Contains reports whether day falls inside the half-open range.
func (r DateRange) Contains(day time.Time) bool {
	day = NormalizeDay(day)
	return !day.Before(r.Start) && day.Before(r.End)
}
