package users

import (
	"context"

	"github.com/dmitrijs2005/tripshare/internal/models"
)

// Record is a stored user together with its PIN hash.
type Record struct {
	models.User
	PinHash string
}

type Repository interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id int64) (*Record, error)
	FindByIdentifier(ctx context.Context, identifier string) (*Record, error)
	Create(ctx context.Context, data models.UserData, pinHash string) (models.User, error)
	Update(ctx context.Context, id int64, data models.UserData) (models.User, error)
	UpdatePin(ctx context.Context, id int64, pinHash string) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}
