package plans

import (
	"context"

	"github.com/dmitrijs2005/tripshare/internal/datecycle"
	"github.com/dmitrijs2005/tripshare/internal/models"
)

type Repository interface {
	ListByMonth(ctx context.Context, period datecycle.YearMonth) ([]models.Plan, error)
	// Upsert stores plan under its natural key and reports whether an
	// earlier plan was replaced.
	Upsert(ctx context.Context, plan models.Plan) (replaced bool, err error)
}
