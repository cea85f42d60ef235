package pricing

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PutGetRate(t *testing.T) {
	dsn := os.Getenv("OYADROP_TEST_DSN")
	if dsn == "" {
		t.Skip("OYADROP_TEST_DSN not set; skipping DB-backed tests")
	}
	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, err = db.Exec(ctx, `CREATE TABLE IF NOT EXISTS rates (
		name TEXT PRIMARY KEY,
		base_fare BIGINT NOT NULL,
		per_km BIGINT NOT NULL,
		currency TEXT NOT NULL DEFAULT 'NGN'
	)`)
	require.NoError(t, err)

	store := NewStore(db)
	want := Rate{Name: "test_bike", BaseFare: 800, PerKm: 150, Currency: "NGN"}
	require.NoError(t, store.PutRate(ctx, want))

	got, err := store.GetRate(ctx, "test_bike")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = store.GetRate(ctx, "does_not_exist")
	assert.ErrorIs(t, err, ErrRateNotFound)
}
