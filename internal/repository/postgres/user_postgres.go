package postgres

import (
	"context"
	"database/sql"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = `id, name, email, password_hash, role, status, email_verified_at, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }, u *model.User) error {
	return row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.Status,
		&u.EmailVerifiedAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}

// Create inserts a new user row and returns the stored record.
func (r *UserPostgres) Create(ctx context.Context, user *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + userColumns + `
	`
	row := r.db.QueryRowContext(ctx, q,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Status,
		user.EmailVerifiedAt,
		user.CreatedAt,
		user.UpdatedAt,
	)
	var out model.User
	if err := scanUser(row, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single user by ID.
func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	var u model.User
	if err := scanUser(r.db.QueryRowContext(ctx, q, id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByEmail fetches a single user by exact email.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	var u model.User
	if err := scanUser(r.db.QueryRowContext(ctx, q, email), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns all users ordered by creation time.
func (r *UserPostgres) List(ctx context.Context) ([]model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update overwrites name, email, role and status of an existing user.
func (r *UserPostgres) Update(ctx context.Context, user *model.User) (*model.User, error) {
	const q = `
		UPDATE users
		SET name = $2, email = $3, role = $4, status = $5, updated_at = $6
		WHERE id = $1
		RETURNING ` + userColumns + `
	`
	row := r.db.QueryRowContext(ctx, q,
		user.ID,
		user.Name,
		user.Email,
		user.Role,
		user.Status,
		user.UpdatedAt,
	)
	var out model.User
	if err := scanUser(row, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a user by ID. Author references on documents and versions
// are nullified by the schema.
func (r *UserPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM users WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// EmailExists reports whether a user other than excludeID has the email.
func (r *UserPostgres) EmailExists(ctx context.Context, email, excludeID string) (bool, error) {
	// id is a uuid column, so an empty excludeID must not reach the bind
	// parameter; it would fail uuid parsing server-side.
	q := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	args := []any{email}
	if excludeID != "" {
		q = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`
		args = append(args, excludeID)
	}
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Counts returns total/active/inactive account counts in one query.
func (r *UserPostgres) Counts(ctx context.Context) (*repository.UserCounts, error) {
	const q = `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'inactive')
		FROM users
	`
	var c repository.UserCounts
	if err := r.db.QueryRowContext(ctx, q).Scan(&c.Total, &c.Active, &c.Inactive); err != nil {
		return nil, err
	}
	return &c, nil
}
