package jobs

import "time"

// Schedule returns the first run time strictly after the given instant.
type Schedule interface {
	Next(after time.Time) time.Time
}

// Daily fires once a day at Hour:00 UTC.
type Daily struct {
	Hour int
}

func (d Daily) Next(after time.Time) time.Time {
	after = after.UTC()
	next := time.Date(after.Year(), after.Month(), after.Day(), d.Hour, 0, 0, 0, time.UTC)
	if !next.After(after) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Weekly fires on Weekday at Hour:00 UTC.
type Weekly struct {
	Weekday time.Weekday
	Hour    int
}

func (w Weekly) Next(after time.Time) time.Time {
	after = after.UTC()
	days := (int(w.Weekday) - int(after.Weekday()) + 7) % 7
	next := time.Date(after.Year(), after.Month(), after.Day()+days, w.Hour, 0, 0, 0, time.UTC)
	if !next.After(after) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}

type Every struct {
	Interval time.Duration
}

func (e Every) Next(after time.Time) time.Time {
	return after.Add(e.Interval)
}
