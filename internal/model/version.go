package model

import "time"

// DocumentVersion is an immutable snapshot of a document's file content.
// Rows are append-only; insertion order is chronological and the most
// recently created row is the current version.
type DocumentVersion struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	FilePath   string    `json:"file_path"`
	Version    string    `json:"version"`
	CreatedBy  *string   `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}
