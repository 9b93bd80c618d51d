package models

import "time"

// LogEntry represents one immutable audit log record. Description and
// AdditionalInfo are stored encrypted; Username may be empty for anonymous
// failures (e.g. failed logins). The suspicious flag is set at write time and
// never revised.
type LogEntry struct {
	ID             int64     `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	Username       string    `json:"username,omitempty"`
	Description    string    `json:"description"`
	AdditionalInfo string    `json:"additional_info,omitempty"`
	Suspicious     bool      `json:"suspicious"`
}
