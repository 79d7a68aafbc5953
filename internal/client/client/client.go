package client

import (
	"context"

	"github.com/dmitrijs2005/tripshare/internal/datecycle"
	"github.com/dmitrijs2005/tripshare/internal/models"
)

// Client is the backend API consumed by the workspace. Every mutation takes
// the id of the acting user.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	Login(ctx context.Context, identifier, pin string) (models.User, error)
	// Logout drops the access token held by the client.
	Logout()

	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, data models.UserData, pin string, actorID int64) (models.User, error)
	// UpdateUser changes a user. newPin and currentPin are optional; empty
	// means absent.
	UpdateUser(ctx context.Context, id int64, data models.UserData, actorID int64, newPin, currentPin string) (models.User, error)
	DeleteUser(ctx context.Context, id, actorID int64) error

	ListPlans(ctx context.Context, period datecycle.YearMonth) ([]models.Plan, error)
	SubmitPlan(ctx context.Context, plan models.Plan) (models.Plan, error)

	ListAllocations(ctx context.Context, period datecycle.YearMonth) ([]models.Allocation, error)
	GenerateAllocations(ctx context.Context, actorID int64, period datecycle.YearMonth) ([]models.Allocation, error)

	ListHolidays(ctx context.Context) ([]string, error)
	UpdateHolidays(ctx context.Context, dates []string, actorID int64) ([]string, error)

	GetSettings(ctx context.Context) (models.SystemSettings, error)
	UpdateSettings(ctx context.Context, settings models.SystemSettings, actorID int64) (models.SystemSettings, error)

	ListStaleUsers(ctx context.Context) ([]string, error)
}
