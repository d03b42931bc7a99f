package stream

import "time"

// Entry is one claimed log entry: the log-assigned ID plus the flat
// string-encoded field map.
type Entry struct {
	ID     string
	Values map[string]interface{}
}

// PendingEntry describes a delivered-but-unacknowledged entry.
type PendingEntry struct {
	ID         string
	Consumer   string
	Idle       time.Duration
	Deliveries int64
}
