package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/tripshare/internal/models"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/repomanager"
)

type SettingsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewSettingsService(db *sql.DB, m repomanager.RepositoryManager) *SettingsService {
	return &SettingsService{db: db, repomanager: m}
}

func (s *SettingsService) Get(ctx context.Context) (models.SystemSettings, error) {
	return s.repomanager.Settings(s.db).Get(ctx)
}

func (s *SettingsService) Update(ctx context.Context, settings models.SystemSettings, actorID int64) (models.SystemSettings, error) {
	if _, err := requireActor(ctx, s.repomanager.Users(s.db), actorID, models.RoleSystemAdmin); err != nil {
		return models.SystemSettings{}, err
	}

	settings.DepartureLabel = strings.TrimSpace(settings.DepartureLabel)
	settings.ArrivalLabel = strings.TrimSpace(settings.ArrivalLabel)
	if err := settings.Validate(); err != nil {
		return models.SystemSettings{}, err
	}

	if err := s.repomanager.Settings(s.db).Update(ctx, settings); err != nil {
		return models.SystemSettings{}, err
	}
	return settings, nil
}
