package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository resolves staff ids to display names from the local
// staff_names table. The table is a best-effort lookup aside; ids it
// does not know simply stay unresolved.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// StaffNames returns display names for the given staff ids. Missing
// ids are absent from the result, never an error.
func (r *Repository) StaffNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, full_name FROM staff_names WHERE id = ANY($1)`, ids,
	)
	if err != nil {
		return nil, fmt.Errorf("query staff names: %w", err)
	}
	defer rows.Close()

	names := make(map[int64]string, len(ids))
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan staff name: %w", err)
		}
		names[id] = name
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate staff names: %w", err)
	}
	return names, nil
}

// UpsertStaffName stores or refreshes one staff display name.
func (r *Repository) UpsertStaffName(ctx context.Context, id int64, name string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO staff_names (id, full_name) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET full_name = EXCLUDED.full_name`,
		id, name,
	)
	if err != nil {
		return fmt.Errorf("upsert staff name %d: %w", id, err)
	}
	return nil
}

// CountStaffNames reports how many names are stored, used by the seed
// check at startup.
func (r *Repository) CountStaffNames(ctx context.Context) (int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM staff_names`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count staff names: %w", err)
	}
	return total, nil
}
