package postgres

import (
	"context"
	"database/sql"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// TagPostgres is a PostgreSQL implementation of repository.TagRepository.
type TagPostgres struct {
	db *sql.DB
}

// NewTagPostgres creates a new TagPostgres repository.
func NewTagPostgres(db *sql.DB) *TagPostgres {
	return &TagPostgres{db: db}
}

var _ repository.TagRepository = (*TagPostgres)(nil)

// ListAll returns every tag ordered by name.
func (r *TagPostgres) ListAll(ctx context.Context) ([]model.Tag, error) {
	const q = `SELECT id, name, created_at FROM tags ORDER BY name`
	return r.queryTags(ctx, q)
}

// ListInUse returns tags that are associated with at least one document.
func (r *TagPostgres) ListInUse(ctx context.Context) ([]model.Tag, error) {
	const q = `
		SELECT DISTINCT t.id, t.name, t.created_at
		FROM tags t
		JOIN document_tag dt ON dt.tag_id = t.id
		ORDER BY t.name
	`
	return r.queryTags(ctx, q)
}

func (r *TagPostgres) queryTags(ctx context.Context, q string) ([]model.Tag, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]model.Tag, 0)
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
