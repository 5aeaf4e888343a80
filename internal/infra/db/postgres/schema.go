package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// EnsureSchema creates the users table if it is missing. The bot owns a
// single table; anything more would justify a real migration tool.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS users (
    id     BIGINT PRIMARY KEY,
    joined BOOLEAN NOT NULL DEFAULT FALSE
);`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
