package repository

import (
	"context"

	"docvault/internal/model"
)

// DocumentRepository defines data access for documents, their tag
// associations and their version history. No business logic here —
// strictly persistence operations.
type DocumentRepository interface {
	// CreateWithTags inserts a document, resolves tagNames to tag rows
	// (existing names matched exactly, missing names inserted), replaces the
	// document's associations with the resolved set and records the initial
	// version row — all in one transaction.
	CreateWithTags(ctx context.Context, doc *model.Document, tagNames []string, initialVersion string) (*model.Document, error)

	// UpdateWithTags overwrites a document's metadata and replaces its tag
	// associations with the set resolved from tagNames, in one transaction.
	// An empty tagNames detaches every association. The primary file is
	// never touched here.
	UpdateWithTags(ctx context.Context, doc *model.Document, tagNames []string) (*model.Document, error)

	// AddVersion appends a version row and repoints the document's current
	// file_path at the version's blob, in one transaction.
	AddVersion(ctx context.Context, ver *model.DocumentVersion) (*model.DocumentVersion, error)

	// FindByID returns a document with tags, creator and versions attached.
	// Versions are ordered newest first.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns all documents ordered by creation time descending, with
	// tags, creator and versions attached.
	List(ctx context.Context) ([]model.Document, error)

	// Delete removes a document row; associations and versions go with it
	// via cascading foreign keys. Returns nil if the row did not exist.
	Delete(ctx context.Context, id string) error

	// Count returns the total number of documents.
	Count(ctx context.Context) (int, error)

	// CountByCreator returns the number of documents created by a user.
	CountByCreator(ctx context.Context, userID string) (int, error)
}
