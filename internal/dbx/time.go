package dbx

import "time"

// UnixMilli converts a time to the integer representation stored in SQLite.
// The zero time maps to 0 so "never synced" round-trips cleanly.
func UnixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// TimeFromMilli is the inverse of UnixMilli.
func TimeFromMilli(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.UnixMilli(v)
}
