package store

import "time"

type Setting struct {
	Key   string
	Value string
}

// SessionStats aggregates focus sessions logged in a time range.
type SessionStats struct {
	Count         int
	Minutes       int
	Interruptions int
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
