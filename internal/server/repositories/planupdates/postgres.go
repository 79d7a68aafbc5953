package planupdates

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/tripshare/internal/dbx"
)

type PostgresStore struct {
	db dbx.DBTX
}

func NewPostgresStore(db dbx.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Mark(ctx context.Context, userID int64, name string) (int64, error) {
	query := `INSERT INTO plan_updates (user_id, user_name, version)
		 VALUES ($1, $2, nextval('plan_update_version'))
		 ON CONFLICT (user_id) DO UPDATE SET user_name = EXCLUDED.user_name, version = EXCLUDED.version
		 RETURNING version`

	var v int64
	if err := s.db.QueryRowContext(ctx, query, userID, name).Scan(&v); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

// CurrentVersion must run inside a transaction. The SHARE lock waits for
// mark transactions in flight and keeps new ones out until the caller
// commits, so no uncommitted mark can hold a version at or below the result.
func (s *PostgresStore) CurrentVersion(ctx context.Context) (int64, error) {
	if _, err := s.db.ExecContext(ctx, `LOCK TABLE plan_updates IN SHARE MODE`); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	var v int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM plan_updates`).Scan(&v); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_name FROM plan_updates ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ClearUpTo(ctx context.Context, version int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM plan_updates WHERE version <= $1`, version); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
