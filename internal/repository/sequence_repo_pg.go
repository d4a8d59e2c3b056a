package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SequenceRepository interface {
	NextValue(ctx context.Context, prefix string) (int, error)
	DeleteAll(ctx context.Context) error
}

type PGSequenceRepository struct {
	db *pgxpool.Pool
}

func NewSequenceRepository(db *pgxpool.Pool) SequenceRepository {
	return &PGSequenceRepository{db: db}
}

// NextValue increments the per-prefix counter and returns the new value in a
// single statement, so concurrent callers never observe a lost update.
func (r *PGSequenceRepository) NextValue(ctx context.Context, prefix string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `INSERT INTO airline_sequence (airline_prefix, last_number)
		VALUES ($1, 1)
		ON CONFLICT (airline_prefix)
		DO UPDATE SET last_number = airline_sequence.last_number + 1
		RETURNING last_number`, prefix).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PGSequenceRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM airline_sequence`)
	return err
}

var _ SequenceRepository = (*PGSequenceRepository)(nil)
