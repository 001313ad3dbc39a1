package model

import "time"

// Tag is a short named label attached to documents (many-to-many).
// Names are unique and matched case-sensitively at the storage layer.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
