package model

import "time"

// DateLayout is the wire format for all dates.
const DateLayout = "2006-01-02"

// Day normalizes t to midnight UTC. Every stored date goes through
// this so equality and grouping by date behave the same on every
// backend.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is the current accounting day.
func Today() time.Time {
	return Day(time.Now().UTC())
}
