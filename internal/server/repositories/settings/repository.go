package settings

import (
	"context"

	"github.com/dmitrijs2005/tripshare/internal/models"
)

type Repository interface {
	Get(ctx context.Context) (models.SystemSettings, error)
	Update(ctx context.Context, s models.SystemSettings) error
}
