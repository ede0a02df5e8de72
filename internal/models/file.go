// Package models defines shared record types.
package models

import "time"

// FileMetadata describes one formula definition file on disk.
type FileMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
