package repository

import (
	"context"

	"docvault/internal/model"
)

// TagRepository reads tag rows. Tag creation happens exclusively inside
// DocumentRepository transactions (find-or-create during tag sync).
type TagRepository interface {
	// ListAll returns every tag ordered by name.
	ListAll(ctx context.Context) ([]model.Tag, error)

	// ListInUse returns tags associated with at least one document.
	ListInUse(ctx context.Context) ([]model.Tag, error)
}
