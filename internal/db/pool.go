package db

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

//go:embed schema.sql
var Schema string

type NewDBPoolParams struct {
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	TracingEnabled bool
}

func (p NewDBPoolParams) connString() string {
	user := p.DBUser
	if user == "" {
		user = "postgres"
	}
	if p.DBPassword != "" {
		user += ":" + p.DBPassword
	}
	return fmt.Sprintf("postgres://%s@%s:%s/%s", user, p.DBHost, p.DBPort, p.DBName)
}

func NewDBPool(ctx context.Context, params NewDBPoolParams) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(params.connString())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	if params.TracingEnabled {
		poolConfig.ConnConfig.Tracer = otelpgx.NewTracer()
	}

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	return db, nil
}

// ApplySchema creates all tables and indexes that do not exist yet.
func ApplySchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	log.Debugln("db schema applied")
	return nil
}

// UpdateByIDQuery renders "UPDATE table SET col = $n, ..., updated_at = NOW() WHERE id = $m RETURNING returning"
// for a partial update. args holds one value per column, the id is appended.
func UpdateByIDQuery(table string, cols []string, args []any, id int, returning string) (string, []any) {
	assignments := make([]string, 0, len(cols)+1)
	for i, col := range cols {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", col, i+1))
	}
	assignments = append(assignments, "updated_at = NOW()")
	args = append(args, id)

	return fmt.Sprintf(
		`UPDATE %s SET %s WHERE id = $%d RETURNING %s`,
		table, strings.Join(assignments, ", "), len(args), returning,
	), args
}
