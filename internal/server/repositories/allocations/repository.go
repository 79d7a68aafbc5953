package allocations

import (
	"context"

	"github.com/dmitrijs2005/tripshare/internal/datecycle"
	"github.com/dmitrijs2005/tripshare/internal/models"
)

type Repository interface {
	ListByMonth(ctx context.Context, period datecycle.YearMonth) ([]models.Allocation, error)
	CountByMonth(ctx context.Context, period datecycle.YearMonth) (int, error)
	// ReplaceMonth drops every allocation dated inside period and stores
	// batch in its place. Run it inside a transaction.
	ReplaceMonth(ctx context.Context, period datecycle.YearMonth, batch []models.Allocation) error
}
