package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/odyssey-users/internal/platform/db"
	"github.com/odyssey-erp/odyssey-users/internal/shared"
)

const userColumns = `id, email, name, role, role_id, is_active, created_at, updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	db db.Querier
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Get fetches a user by id.
func (r *Repository) Get(ctx context.Context, id int64) (*User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail fetches a user by email together with its password hash.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var hash pgtype.Text
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+`, password_hash FROM users WHERE email = $1`, email)
	user, err := scanUser(row, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if hash.Valid {
		user.PasswordHash = hash.String
	}
	return &user, nil
}

// FindByRole returns users filed under the given role name.
func (r *Repository) FindByRole(ctx context.Context, role string) ([]User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY id`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := []User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// CountByRole counts users filed under the given role name.
func (r *Repository) CountByRole(ctx context.Context, role string) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a user and returns its id.
func (r *Repository) Create(ctx context.Context, user User) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (email, name, role, role_id, is_active, password_hash) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		user.Email, user.Name, user.Role, nullableRoleID(user.RoleID), user.IsActive,
		pgtype.Text{String: user.PasswordHash, Valid: user.PasswordHash != ""},
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update stores the profile fields of an existing user.
func (r *Repository) Update(ctx context.Context, user User) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET email = $2, name = $3, updated_at = now() WHERE id = $1`,
		user.ID, user.Email, user.Name,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Deactivate flags a user inactive.
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET is_active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row, extra ...any) (User, error) {
	var (
		user      User
		roleID    pgtype.Int8
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	dest := append([]any{&user.ID, &user.Email, &user.Name, &user.Role, &roleID, &user.IsActive, &createdAt, &updatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return User{}, err
	}
	if roleID.Valid {
		user.RoleID = roleID.Int64
	}
	if createdAt.Valid {
		user.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.Time
	}
	return user, nil
}

func nullableRoleID(id int64) pgtype.Int8 {
	return pgtype.Int8{Int64: id, Valid: id > 0}
}

var _ RepositoryPort = (*Repository)(nil)
