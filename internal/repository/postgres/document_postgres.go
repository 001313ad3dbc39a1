package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
// Multi-table writes (document + tag sync + version rows) run in one transaction.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, title, description, file_path, expired_at, created_by, updated_by, created_at, updated_at`

func scanDocument(row interface{ Scan(...any) error }, d *model.Document) error {
	return row.Scan(
		&d.ID,
		&d.Title,
		&d.Description,
		&d.FilePath,
		&d.ExpiredAt,
		&d.CreatedBy,
		&d.UpdatedBy,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
}

// CreateWithTags inserts the document, syncs its tag set and records the
// initial version row, all inside one transaction.
func (r *DocumentPostgres) CreateWithTags(ctx context.Context, doc *model.Document, tagNames []string, initialVersion string) (*model.Document, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const qInsert = `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + documentColumns + `
	`
	var out model.Document
	row := tx.QueryRowContext(ctx, qInsert,
		doc.ID,
		doc.Title,
		doc.Description,
		doc.FilePath,
		doc.ExpiredAt,
		doc.CreatedBy,
		doc.UpdatedBy,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err := scanDocument(row, &out); err != nil {
		return nil, err
	}

	tags, err := syncTags(ctx, tx, out.ID, tagNames)
	if err != nil {
		return nil, err
	}
	out.Tags = tags

	ver, err := insertVersion(ctx, tx, &model.DocumentVersion{
		ID:         uuid.New().String(),
		DocumentID: out.ID,
		FilePath:   out.FilePath,
		Version:    initialVersion,
		CreatedBy:  doc.CreatedBy,
		CreatedAt:  out.CreatedAt,
	})
	if err != nil {
		return nil, err
	}
	out.Versions = []model.DocumentVersion{*ver}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateWithTags overwrites metadata and replaces the tag association set in
// one transaction. An empty tagNames detaches everything.
func (r *DocumentPostgres) UpdateWithTags(ctx context.Context, doc *model.Document, tagNames []string) (*model.Document, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const qUpdate = `
		UPDATE documents
		SET title = $2, description = $3, expired_at = $4, updated_by = $5, updated_at = $6
		WHERE id = $1
		RETURNING ` + documentColumns + `
	`
	var out model.Document
	row := tx.QueryRowContext(ctx, qUpdate,
		doc.ID,
		doc.Title,
		doc.Description,
		doc.ExpiredAt,
		doc.UpdatedBy,
		doc.UpdatedAt,
	)
	if err := scanDocument(row, &out); err != nil {
		return nil, err
	}

	tags, err := syncTags(ctx, tx, out.ID, tagNames)
	if err != nil {
		return nil, err
	}
	out.Tags = tags

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddVersion appends the version row and repoints the document's current
// file path, in one transaction.
func (r *DocumentPostgres) AddVersion(ctx context.Context, ver *model.DocumentVersion) (*model.DocumentVersion, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	out, err := insertVersion(ctx, tx, ver)
	if err != nil {
		return nil, err
	}

	const qRepoint = `
		UPDATE documents
		SET file_path = $2, updated_by = $3, updated_at = $4
		WHERE id = $1
	`
	res, err := tx.ExecContext(ctx, qRepoint, ver.DocumentID, ver.FilePath, ver.CreatedBy, ver.CreatedAt)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, sql.ErrNoRows
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID fetches a single document with tags, creator and versions attached.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	var d model.Document
	if err := scanDocument(r.db.QueryRowContext(ctx, q, id), &d); err != nil {
		return nil, err
	}

	tags, err := r.documentTags(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	d.Tags = tags

	versions, err := r.documentVersions(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	d.Versions = versions

	if d.CreatedBy != nil {
		creator, err := r.userByID(ctx, *d.CreatedBy)
		if err != nil && err != sql.ErrNoRows {
			return nil, err
		}
		d.Creator = creator
	}

	return &d, nil
}

// List returns all documents newest first with tags, creator and versions
// attached. Associations are loaded in bulk and grouped in memory to avoid
// one query per document.
func (r *DocumentPostgres) List(ctx context.Context) ([]model.Document, error) {
	const qDocs = `SELECT ` + documentColumns + ` FROM documents ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, qDocs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]model.Document, 0)
	index := make(map[string]int)
	for rows.Next() {
		var d model.Document
		if err := scanDocument(rows, &d); err != nil {
			return nil, err
		}
		d.Tags = []model.Tag{}
		d.Versions = []model.DocumentVersion{}
		index[d.ID] = len(docs)
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return docs, nil
	}

	if err := r.attachTags(ctx, docs, index); err != nil {
		return nil, err
	}
	if err := r.attachVersions(ctx, docs, index); err != nil {
		return nil, err
	}
	if err := r.attachCreators(ctx, docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Delete removes a document by ID; tag associations and versions are removed
// by cascading foreign keys. It does not return an error if the row does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// Count returns the total number of documents.
func (r *DocumentPostgres) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n)
	return n, err
}

// CountByCreator returns the number of documents a user created.
func (r *DocumentPostgres) CountByCreator(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE created_by = $1`, userID).Scan(&n)
	return n, err
}

// syncTags replaces the document's association set with exactly the set
// resolved from names. Existing tags are matched by exact name; missing
// names are inserted. The upsert returns the row in both cases so a
// concurrent insert of the same name cannot fail the sync.
func syncTags(ctx context.Context, tx *sql.Tx, documentID string, names []string) ([]model.Tag, error) {
	if _, err := tx.ExecContext(ctx, `DELETE FROM document_tag WHERE document_id = $1`, documentID); err != nil {
		return nil, err
	}

	tags := make([]model.Tag, 0, len(names))
	for _, name := range names {
		const qUpsert = `
			INSERT INTO tags (id, name, created_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id, name, created_at
		`
		var t model.Tag
		err := tx.QueryRowContext(ctx, qUpsert, uuid.New().String(), name, time.Now().UTC()).
			Scan(&t.ID, &t.Name, &t.CreatedAt)
		if err != nil {
			return nil, err
		}

		const qLink = `INSERT INTO document_tag (document_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
		if _, err := tx.ExecContext(ctx, qLink, documentID, t.ID); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, nil
}

func insertVersion(ctx context.Context, tx *sql.Tx, ver *model.DocumentVersion) (*model.DocumentVersion, error) {
	const q = `
		INSERT INTO document_versions (id, document_id, file_path, version, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, document_id, file_path, version, created_by, created_at
	`
	var out model.DocumentVersion
	err := tx.QueryRowContext(ctx, q,
		ver.ID,
		ver.DocumentID,
		ver.FilePath,
		ver.Version,
		ver.CreatedBy,
		ver.CreatedAt,
	).Scan(&out.ID, &out.DocumentID, &out.FilePath, &out.Version, &out.CreatedBy, &out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *DocumentPostgres) documentTags(ctx context.Context, documentID string) ([]model.Tag, error) {
	const q = `
		SELECT t.id, t.name, t.created_at
		FROM document_tag dt
		JOIN tags t ON t.id = dt.tag_id
		WHERE dt.document_id = $1
		ORDER BY t.name
	`
	rows, err := r.db.QueryContext(ctx, q, documentID)
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

func (r *DocumentPostgres) documentVersions(ctx context.Context, documentID string) ([]model.DocumentVersion, error) {
	const q = `
		SELECT id, document_id, file_path, version, created_by, created_at
		FROM document_versions
		WHERE document_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	versions := make([]model.DocumentVersion, 0)
	for rows.Next() {
		var v model.DocumentVersion
		if err := rows.Scan(&v.ID, &v.DocumentID, &v.FilePath, &v.Version, &v.CreatedBy, &v.CreatedAt); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func (r *DocumentPostgres) userByID(ctx context.Context, id string) (*model.User, error) {
	const q = `
		SELECT id, name, email, role, status, email_verified_at, created_at, updated_at
		FROM users WHERE id = $1
	`
	var u model.User
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.Role, &u.Status, &u.EmailVerifiedAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *DocumentPostgres) attachTags(ctx context.Context, docs []model.Document, index map[string]int) error {
	const q = `
		SELECT dt.document_id, t.id, t.name, t.created_at
		FROM document_tag dt
		JOIN tags t ON t.id = dt.tag_id
		ORDER BY t.name
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var docID string
		var t model.Tag
		if err := rows.Scan(&docID, &t.ID, &t.Name, &t.CreatedAt); err != nil {
			return err
		}
		if i, ok := index[docID]; ok {
			docs[i].Tags = append(docs[i].Tags, t)
		}
	}
	return rows.Err()
}

func (r *DocumentPostgres) attachVersions(ctx context.Context, docs []model.Document, index map[string]int) error {
	const q = `
		SELECT id, document_id, file_path, version, created_by, created_at
		FROM document_versions
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var v model.DocumentVersion
		if err := rows.Scan(&v.ID, &v.DocumentID, &v.FilePath, &v.Version, &v.CreatedBy, &v.CreatedAt); err != nil {
			return err
		}
		if i, ok := index[v.DocumentID]; ok {
			docs[i].Versions = append(docs[i].Versions, v)
		}
	}
	return rows.Err()
}

func (r *DocumentPostgres) attachCreators(ctx context.Context, docs []model.Document) error {
	const q = `SELECT id, name, email, role, status, email_verified_at, created_at, updated_at FROM users`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return err
	}
	defer rows.Close()

	users := make(map[string]*model.User)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Status, &u.EmailVerifiedAt, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return err
		}
		users[u.ID] = &u
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range docs {
		if docs[i].CreatedBy != nil {
			docs[i].Creator = users[*docs[i].CreatedBy]
		}
	}
	return nil
}
