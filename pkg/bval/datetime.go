package bval

import "time"

// DateTime is a signed count of milliseconds since the Unix epoch. It is
// a pure instant; no timezone is stored.
type DateTime int64

// NewDateTime truncates t to millisecond resolution.
func NewDateTime(t time.Time) DateTime {
	return DateTime(t.UnixMilli())
}

// Time returns the instant in UTC.
func (d DateTime) Time() time.Time {
	return time.UnixMilli(int64(d)).UTC()
}
