package testing

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/2beens/newsroom/internal/db"
)

func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

// GetDBPool connects to the postgres given by POSTGRES_HOST / POSTGRES_PORT / POSTGRES_DB
// (localhost:5432/newsroom_test by default), applies the schema and closes the pool on cleanup.
func GetDBPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	host := envOr("POSTGRES_HOST", "localhost")
	t.Logf("using postgres host: %s", host)

	pool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     host,
		DBPort:     envOr("POSTGRES_PORT", "5432"),
		DBUser:     os.Getenv("POSTGRES_USER"),
		DBPassword: os.Getenv("POSTGRES_PASSWORD"),
		DBName:     envOr("POSTGRES_DB", "newsroom_test"),
	})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.ApplySchema(ctx, pool))
	return pool
}
