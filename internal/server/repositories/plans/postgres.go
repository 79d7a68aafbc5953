// Package plans stores monthly travel plans in PostgreSQL. Selected days
// are kept as a JSONB array.
package plans

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tripshare/internal/datecycle"
	"github.com/dmitrijs2005/tripshare/internal/dbx"
	"github.com/dmitrijs2005/tripshare/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByMonth(ctx context.Context, period datecycle.YearMonth) ([]models.Plan, error) {
	query := `SELECT p.user_id, u.name, p.year, p.month, p.selected_days
		 FROM plans p JOIN users u ON u.id = p.user_id
		 WHERE p.year = $1 AND p.month = $2
		 ORDER BY u.name, p.user_id`

	rows, err := r.db.QueryContext(ctx, query, period.Year, int(period.Month))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]models.Plan, 0)
	for rows.Next() {
		var p models.Plan
		var month int
		var days []byte
		if err := rows.Scan(&p.UserID, &p.UserName, &p.Year, &month, &days); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		p.Month = time.Month(month)
		if err := json.Unmarshal(days, &p.SelectedDays); err != nil {
			return nil, fmt.Errorf("decode selected days of user %d: %w", p.UserID, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, plan models.Plan) (bool, error) {
	query := `INSERT INTO plans (user_id, year, month, selected_days)
		 VALUES ($1, $2, $3, $4::jsonb)
		 ON CONFLICT (user_id, year, month)
		 DO UPDATE SET selected_days = EXCLUDED.selected_days, updated_at = NOW()
		 RETURNING (xmax <> 0)`

	days := plan.SelectedDays
	if days == nil {
		days = []int{}
	}
	b, err := json.Marshal(days)
	if err != nil {
		return false, err
	}

	var replaced bool
	if err := r.db.QueryRowContext(ctx, query,
		plan.UserID, plan.Year, int(plan.Month), string(b)).Scan(&replaced); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return replaced, nil
}
