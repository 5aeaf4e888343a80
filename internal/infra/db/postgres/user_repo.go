package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-relay-bot/internal/domain"
	"telegram-relay-bot/internal/domain/model"
	"telegram-relay-bot/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// EnsureExists inserts the record with joined=false unless it is already
// there. ON CONFLICT DO NOTHING makes concurrent first contacts for the same
// user race-free without any application-side locking.
func (r *UserRepo) EnsureExists(ctx context.Context, tx repository.Tx, tgID int64) error {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	const q = `INSERT INTO users (id, joined) VALUES ($1, FALSE) ON CONFLICT (id) DO NOTHING;`
	if _, err := ex.Exec(ctx, q, tgID); err != nil {
		return fmt.Errorf("ensure user %d: %w", tgID, pgDiag(err))
	}
	return nil
}

// MarkJoined sets the flag unconditionally. The flag never goes back to
// false, so replays of the join recheck are harmless.
func (r *UserRepo) MarkJoined(ctx context.Context, tx repository.Tx, tgID int64) error {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	const q = `UPDATE users SET joined = TRUE WHERE id = $1;`
	if _, err := ex.Exec(ctx, q, tgID); err != nil {
		return fmt.Errorf("mark joined %d: %w", tgID, pgDiag(err))
	}
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, tx repository.Tx, tgID int64) (*model.User, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	var u model.User
	if err := ex.QueryRow(ctx, `SELECT id, joined FROM users WHERE id = $1;`, tgID).
		Scan(&u.ID, &u.Joined); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user %d: %w", tgID, pgDiag(err))
	}
	return &u, nil
}

// IsJoined reads the live flag on every call; the access gate never caches
// this so a passed recheck is visible immediately.
func (r *UserRepo) IsJoined(ctx context.Context, tx repository.Tx, tgID int64) (bool, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return false, err
	}
	var joined bool
	if err := ex.QueryRow(ctx, `SELECT joined FROM users WHERE id = $1;`, tgID).Scan(&joined); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("is joined %d: %w", tgID, pgDiag(err))
	}
	return joined, nil
}

func (r *UserRepo) ListIDs(ctx context.Context, tx repository.Tx) ([]int64, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, `SELECT id FROM users ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", pgDiag(err))
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *UserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return 0, err
	}
	var n int
	if err := ex.QueryRow(ctx, `SELECT COUNT(*) FROM users;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", pgDiag(err))
	}
	return n, nil
}

// pgDiag enriches driver errors with the SQLSTATE code when present.
func pgDiag(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s (sqlstate %s)", pgErr.Message, pgErr.Code)
	}
	return err
}
