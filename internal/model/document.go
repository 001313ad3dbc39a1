package model

import "time"

// Document is a managed file with metadata, a set of tags and an
// append-only version history. FilePath always points at the blob of the
// most recently uploaded version.
type Document struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	FilePath    string     `json:"file_path"`
	ExpiredAt   *time.Time `json:"expired_at"`
	CreatedBy   *string    `json:"created_by"`
	UpdatedBy   *string    `json:"updated_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Eagerly attached associations. Versions are ordered newest first.
	Tags     []Tag             `json:"tags,omitempty"`
	Creator  *User             `json:"creator,omitempty"`
	Versions []DocumentVersion `json:"versions,omitempty"`
}
