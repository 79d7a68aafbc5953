package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/tripshare/internal/common"
	"github.com/dmitrijs2005/tripshare/internal/dbx"
	"github.com/dmitrijs2005/tripshare/internal/models"
	"github.com/dmitrijs2005/tripshare/internal/server/auth"
	"github.com/dmitrijs2005/tripshare/internal/server/config"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/repomanager"
)

type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

type LoginResult struct {
	User        models.User
	AccessToken string
}

// Login matches identifier against emails (case-insensitive) and display
// names. Unknown users and wrong PINs are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, identifier, pin string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, fmt.Errorf("%w: identifier is required", common.ErrValidation)
	}
	if err := common.ValidatePin(pin); err != nil {
		return nil, err
	}

	rec, err := s.repomanager.Users(s.db).FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrAuthentication
		}
		return nil, err
	}

	ok, err := auth.CheckPin(rec.PinHash, pin)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if !ok {
		return nil, common.ErrAuthentication
	}

	token, err := auth.GenerateToken(auth.Principal{UserID: rec.ID, Role: rec.Role}, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &LoginResult{User: rec.User, AccessToken: token}, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.repomanager.Users(s.db).List(ctx)
}

func normalizeUserData(data models.UserData) (models.UserData, error) {
	data.Name = strings.TrimSpace(data.Name)
	data.Email = strings.TrimSpace(data.Email)
	if err := data.Validate(); err != nil {
		return models.UserData{}, err
	}
	return data, nil
}

// Create adds a user. An empty pin means common.DefaultPin.
func (s *UserService) Create(ctx context.Context, data models.UserData, pin string, actorID int64) (models.User, error) {
	repo := s.repomanager.Users(s.db)
	if _, err := requireActor(ctx, repo, actorID, models.RoleSystemAdmin); err != nil {
		return models.User{}, err
	}

	data, err := normalizeUserData(data)
	if err != nil {
		return models.User{}, err
	}
	if pin == "" {
		pin = common.DefaultPin
	}
	if err := common.ValidatePin(pin); err != nil {
		return models.User{}, err
	}
	hash, err := auth.HashPin(pin)
	if err != nil {
		return models.User{}, common.ErrorInternal
	}

	return repo.Create(ctx, data, hash)
}

type UpdateUserInput struct {
	ID      int64
	Data    models.UserData
	ActorID int64
	// NewPin replaces the PIN when set. Users changing their own PIN must
	// also pass CurrentPin.
	NewPin     string
	CurrentPin string
}

// Update edits a user. System admins edit anyone but cannot drop their own
// admin role; everyone else edits only themselves and keeps their role.
func (s *UserService) Update(ctx context.Context, in UpdateUserInput) (models.User, error) {
	repo := s.repomanager.Users(s.db)
	actor, err := requireActor(ctx, repo, in.ActorID)
	if err != nil {
		return models.User{}, err
	}
	self := actor.ID == in.ID
	if !self && actor.Role != models.RoleSystemAdmin {
		return models.User{}, fmt.Errorf("%w: cannot edit other users", common.ErrorForbidden)
	}

	data, err := normalizeUserData(in.Data)
	if err != nil {
		return models.User{}, err
	}

	target, err := repo.Get(ctx, in.ID)
	if err != nil {
		return models.User{}, err
	}

	if self {
		if actor.Role == models.RoleSystemAdmin && data.Role != models.RoleSystemAdmin {
			return models.User{}, common.ErrSelfDemotion
		}
		if actor.Role != models.RoleSystemAdmin && data.Role != target.Role {
			return models.User{}, fmt.Errorf("%w: cannot change own role", common.ErrorForbidden)
		}
	}

	var pinHash string
	if in.NewPin != "" {
		if err := common.ValidatePin(in.NewPin); err != nil {
			return models.User{}, err
		}
		if self {
			if in.CurrentPin == "" {
				return models.User{}, fmt.Errorf("%w: current PIN is required", common.ErrValidation)
			}
			ok, err := auth.CheckPin(target.PinHash, in.CurrentPin)
			if err != nil {
				return models.User{}, common.ErrorInternal
			}
			if !ok {
				return models.User{}, fmt.Errorf("%w: current PIN does not match", common.ErrAuthentication)
			}
		}
		if pinHash, err = auth.HashPin(in.NewPin); err != nil {
			return models.User{}, common.ErrorInternal
		}
	}

	var updated models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		txRepo := s.repomanager.Users(tx)
		updated, err = txRepo.Update(ctx, in.ID, data)
		if err != nil {
			return err
		}
		if pinHash != "" {
			return txRepo.UpdatePin(ctx, in.ID, pinHash)
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id, actorID int64) error {
	repo := s.repomanager.Users(s.db)
	actor, err := requireActor(ctx, repo, actorID, models.RoleSystemAdmin)
	if err != nil {
		return err
	}
	if actor.ID == id {
		return common.ErrSelfDelete
	}
	return repo.Delete(ctx, id)
}
