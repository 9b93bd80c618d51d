package models

import "time"

// BackupInfo describes one backup archive on disk, including the metadata
// record embedded in the archive itself.
type BackupInfo struct {
	Filename  string    `json:"filename"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	Creator   string    `json:"creator"`
}
