// Package settings keeps the single-row system settings table.
package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tripshare/internal/dbx"
	"github.com/dmitrijs2005/tripshare/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get falls back to models.DefaultSettings when the row is missing.
func (r *PostgresRepository) Get(ctx context.Context) (models.SystemSettings, error) {
	query := `SELECT departure_label, arrival_label, trip_price, allocate_for_current_month, user_list_view_enabled
		 FROM settings WHERE id = 1`

	var s models.SystemSettings
	err := r.db.QueryRowContext(ctx, query).Scan(
		&s.DepartureLabel, &s.ArrivalLabel, &s.TripPrice, &s.AllocateForCurrentMonth, &s.UserListViewEnabled)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.SystemSettings{}, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Update(ctx context.Context, s models.SystemSettings) error {
	query := `INSERT INTO settings (id, departure_label, arrival_label, trip_price, allocate_for_current_month, user_list_view_enabled)
		 VALUES (1, $1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET
		   departure_label = EXCLUDED.departure_label,
		   arrival_label = EXCLUDED.arrival_label,
		   trip_price = EXCLUDED.trip_price,
		   allocate_for_current_month = EXCLUDED.allocate_for_current_month,
		   user_list_view_enabled = EXCLUDED.user_list_view_enabled`

	if _, err := r.db.ExecContext(ctx, query,
		s.DepartureLabel, s.ArrivalLabel, s.TripPrice, s.AllocateForCurrentMonth, s.UserListViewEnabled); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
