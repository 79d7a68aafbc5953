package services

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/tripshare/internal/common"
	"github.com/dmitrijs2005/tripshare/internal/datecycle"
	"github.com/dmitrijs2005/tripshare/internal/dbx"
	"github.com/dmitrijs2005/tripshare/internal/models"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/repomanager"
)

type HolidayService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewHolidayService(db *sql.DB, m repomanager.RepositoryManager) *HolidayService {
	return &HolidayService{db: db, repomanager: m}
}

func (s *HolidayService) List(ctx context.Context) ([]string, error) {
	return s.repomanager.Holidays(s.db).List(ctx)
}

// Replace stores dates as the complete holiday calendar and returns what
// was saved: YYYY-MM-DD, deduplicated and sorted.
func (s *HolidayService) Replace(ctx context.Context, dates []string, actorID int64) ([]string, error) {
	if _, err := requireActor(ctx, s.repomanager.Users(s.db), actorID, models.RoleAllocationAdmin); err != nil {
		return nil, err
	}

	norm := make([]string, 0, len(dates))
	for _, d := range dates {
		n, err := datecycle.NormalizeDate(strings.TrimSpace(d))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
		}
		norm = append(norm, n)
	}
	slices.Sort(norm)
	norm = slices.Compact(norm)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Holidays(tx).Replace(ctx, norm)
	})
	if err != nil {
		return nil, err
	}
	return norm, nil
}
