// Package services holds the server-side business rules. Every mutation
// names its acting user; the actor is loaded from storage and its role
// checked before anything is written.
package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/tripshare/internal/common"
	"github.com/dmitrijs2005/tripshare/internal/models"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/users"
)

// requireActor loads actorID and, when roles is non-empty, checks that the
// actor holds one of them.
func requireActor(ctx context.Context, repo users.Repository, actorID int64, roles ...models.Role) (*users.Record, error) {
	if actorID <= 0 {
		return nil, fmt.Errorf("%w: no acting user", common.ErrorForbidden)
	}
	rec, err := repo.Get(ctx, actorID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: unknown user %d", common.ErrorForbidden, actorID)
		}
		return nil, err
	}
	if len(roles) > 0 && !slices.Contains(roles, rec.Role) {
		return nil, fmt.Errorf("%w: %s may not do this", common.ErrorForbidden, rec.Role)
	}
	return rec, nil
}
