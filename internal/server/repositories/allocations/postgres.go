// Package allocations persists generated trip allocations together with
// their travelers.
package allocations

import (
	"context"
	"fmt"

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

// monthBounds returns the half-open date range [first day, first day of next month).
func monthBounds(period datecycle.YearMonth) (string, string) {
	return period.Date(1), period.Next().Date(1)
}

func (r *PostgresRepository) ListByMonth(ctx context.Context, period datecycle.YearMonth) ([]models.Allocation, error) {
	query := `SELECT a.id, to_char(a.trip_date, 'YYYY-MM-DD'), a.booker_id, b.name, a.trip_type, t.user_id, u.name
		 FROM allocations a
		 JOIN users b ON b.id = a.booker_id
		 JOIN allocation_travelers t ON t.allocation_id = a.id
		 JOIN users u ON u.id = t.user_id
		 WHERE a.trip_date >= $1::date AND a.trip_date < $2::date
		 ORDER BY a.trip_date, t.user_id`

	from, to := monthBounds(period)
	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]models.Allocation, 0)
	var lastID int64
	for rows.Next() {
		var (
			id int64
			a  models.Allocation
			t  models.Traveler
		)
		if err := rows.Scan(&id, &a.Date, &a.BookerID, &a.BookerName, &a.TripType, &t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if len(out) == 0 || id != lastID {
			out = append(out, a)
			lastID = id
		}
		cur := &out[len(out)-1]
		cur.Travelers = append(cur.Travelers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) CountByMonth(ctx context.Context, period datecycle.YearMonth) (int, error) {
	query := `SELECT COUNT(*) FROM allocations WHERE trip_date >= $1::date AND trip_date < $2::date`

	from, to := monthBounds(period)
	var n int
	if err := r.db.QueryRowContext(ctx, query, from, to).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) ReplaceMonth(ctx context.Context, period datecycle.YearMonth, batch []models.Allocation) error {
	from, to := monthBounds(period)
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM allocations WHERE trip_date >= $1::date AND trip_date < $2::date`, from, to); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	for _, a := range batch {
		if !period.Contains(a.Date) {
			return fmt.Errorf("allocation %s outside %s", a.Date, period)
		}

		var id int64
		if err := r.db.QueryRowContext(ctx,
			`INSERT INTO allocations (trip_date, booker_id, trip_type) VALUES ($1::date, $2, $3) RETURNING id`,
			a.Date, a.BookerID, a.TripType).Scan(&id); err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		for _, t := range a.Travelers {
			if _, err := r.db.ExecContext(ctx,
				`INSERT INTO allocation_travelers (allocation_id, user_id) VALUES ($1, $2)`, id, t.ID); err != nil {
				return fmt.Errorf("db error: %w", err)
			}
		}
	}
	return nil
}
