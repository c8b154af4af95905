package roles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/odyssey-users/internal/platform/db"
	"github.com/odyssey-erp/odyssey-users/internal/shared"
)

const roleColumns = `id, name, active, created_at, updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	db   db.Querier
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool, pool: pool}
}

// WithTx runs fn against a transaction-scoped repository; returning nil commits.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, RepositoryPort) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &Repository{db: tx, pool: r.pool})
	})
}

// Find fetches a role by id.
func (r *Repository) Find(ctx context.Context, id int64) (*Role, error) {
	return r.findOne(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id)
}

// FindOneByName fetches the first role with the given name.
func (r *Repository) FindOneByName(ctx context.Context, name string) (*Role, error) {
	return r.findOne(ctx, `SELECT `+roleColumns+` FROM roles WHERE name = $1 ORDER BY id LIMIT 1`, name)
}

// FindByStatus lists roles by active flag.
func (r *Repository) FindByStatus(ctx context.Context, active bool) ([]Role, error) {
	rows, err := r.db.Query(ctx, `SELECT `+roleColumns+` FROM roles WHERE active = $1 ORDER BY id`, active)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	roles := []Role{}
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roles, nil
}

// Insert persists a new role and assigns its id.
func (r *Repository) Insert(ctx context.Context, role *Role) error {
	row := r.db.QueryRow(ctx,
		`INSERT INTO roles (name, active) VALUES ($1, $2) RETURNING `+roleColumns,
		role.Name, role.Active,
	)
	inserted, err := scanRole(row)
	if err != nil {
		return err
	}
	*role = inserted
	return nil
}

// Update merges name and active flag into an existing role.
func (r *Repository) Update(ctx context.Context, role Role) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE roles SET name = $2, active = $3, updated_at = now() WHERE id = $1`,
		role.ID, role.Name, role.Active,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Remove deletes a role by id.
func (r *Repository) Remove(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *Repository) findOne(ctx context.Context, query string, arg any) (*Role, error) {
	role, err := scanRole(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

func scanRole(row pgx.Row) (Role, error) {
	var (
		role      Role
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&role.ID, &role.Name, &role.Active, &createdAt, &updatedAt); err != nil {
		return Role{}, err
	}
	if createdAt.Valid {
		role.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		role.UpdatedAt = updatedAt.Time
	}
	return role, nil
}

var _ RepositoryPort = (*Repository)(nil)
