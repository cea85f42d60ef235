// README: Pricing rate card backed by PostgreSQL.
package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) GetRate(ctx context.Context, name string) (Rate, error) {
	var r Rate
	err := s.db.QueryRow(ctx, `
		SELECT name, base_fare, per_km, currency
		FROM rates
		WHERE name = $1`, name,
	).Scan(&r.Name, &r.BaseFare, &r.PerKm, &r.Currency)
	if errors.Is(err, pgx.ErrNoRows) {
		return Rate{}, ErrRateNotFound
	}
	if err != nil {
		return Rate{}, fmt.Errorf("query rate %q: %w", name, err)
	}
	return r, nil
}

func (s *Store) PutRate(ctx context.Context, r Rate) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO rates (name, base_fare, per_km, currency)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE
		SET base_fare = EXCLUDED.base_fare,
		    per_km = EXCLUDED.per_km,
		    currency = EXCLUDED.currency`,
		r.Name, r.BaseFare, r.PerKm, r.Currency,
	)
	return err
}
