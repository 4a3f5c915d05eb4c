package models

import "time"

// TimePrecision is the resolution every modifiedAt is stored and compared
// with. It matches PostgreSQL timestamptz.
const TimePrecision = time.Microsecond

// NormalizeTime converts t to UTC and truncates it to [TimePrecision], so
// values survive a database round trip unchanged.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(TimePrecision)
}
