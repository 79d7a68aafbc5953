// Package seed bootstraps an empty database from a YAML file: system
// settings, the holiday calendar and the first accounts.
//
// Example:
//
//	settings:
//	  departureLabel: To the office
//	  arrivalLabel: Back home
//	  tripPrice: "12.50"
//	admin:
//	  name: Admin
//	  email: admin@example.com
//	  pin: "4711"
//	holidays: ["2025-12-25", "2025-12-26"]
//	users:
//	  - name: Alice
//	    role: user
package seed

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/tripshare/internal/common"
	"github.com/dmitrijs2005/tripshare/internal/datecycle"
	"github.com/dmitrijs2005/tripshare/internal/dbx"
	"github.com/dmitrijs2005/tripshare/internal/logging"
	"github.com/dmitrijs2005/tripshare/internal/models"
	"github.com/dmitrijs2005/tripshare/internal/server/auth"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/repomanager"
)

type Settings struct {
	DepartureLabel          string `yaml:"departureLabel"`
	ArrivalLabel            string `yaml:"arrivalLabel"`
	TripPrice               string `yaml:"tripPrice"`
	AllocateForCurrentMonth bool   `yaml:"allocateForCurrentMonth"`
	UserListViewEnabled     *bool  `yaml:"userListViewEnabled"`
}

type Account struct {
	Name      string `yaml:"name"`
	Email     string `yaml:"email"`
	Role      string `yaml:"role"`
	Pin       string `yaml:"pin"`
	SendEmail bool   `yaml:"sendEmail"`
}

type File struct {
	Settings *Settings `yaml:"settings"`
	Admin    Account   `yaml:"admin"`
	Holidays []string  `yaml:"holidays"`
	Users    []Account `yaml:"users"`
}

// Load reads and decodes a seed file. Unknown keys are rejected.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Decode(data)
}

func Decode(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: seed file: %v", common.ErrValidation, err)
	}
	return &f, nil
}

func (s *Settings) toModel() (models.SystemSettings, error) {
	out := models.DefaultSettings()
	if s.DepartureLabel != "" {
		out.DepartureLabel = s.DepartureLabel
	}
	if s.ArrivalLabel != "" {
		out.ArrivalLabel = s.ArrivalLabel
	}
	if s.TripPrice != "" {
		p, err := decimal.NewFromString(s.TripPrice)
		if err != nil {
			return out, fmt.Errorf("%w: trip price %q", common.ErrValidation, s.TripPrice)
		}
		out.TripPrice = p
	}
	out.AllocateForCurrentMonth = s.AllocateForCurrentMonth
	if s.UserListViewEnabled != nil {
		out.UserListViewEnabled = *s.UserListViewEnabled
	}
	return out, out.Validate()
}

func (a Account) toModel(defaultRole models.Role) (models.UserData, string, error) {
	role := defaultRole
	if a.Role != "" {
		r, err := models.ParseRole(a.Role)
		if err != nil {
			return models.UserData{}, "", fmt.Errorf("%w: %v", common.ErrValidation, err)
		}
		role = r
	}
	data := models.UserData{Name: a.Name, Email: a.Email, Role: role, SendEmail: a.SendEmail}
	if err := data.Validate(); err != nil {
		return data, "", err
	}
	pin := a.Pin
	if pin == "" {
		pin = common.DefaultPin
	}
	if err := common.ValidatePin(pin); err != nil {
		return data, "", err
	}
	return data, pin, nil
}

// Apply writes f into an empty database. A database that already has users
// is left untouched; applied reports whether anything was written.
func Apply(ctx context.Context, db *sql.DB, m repomanager.RepositoryManager, f *File, log logging.Logger) (applied bool, err error) {
	log = log.With("module", "seed")

	n, err := m.Users(db).Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		log.Info(ctx, "Database already has users, seed skipped", "users", n)
		return false, nil
	}
	if f.Admin.Name == "" {
		return false, fmt.Errorf("%w: seed file needs an admin", common.ErrValidation)
	}

	holidays := make([]string, 0, len(f.Holidays))
	for _, d := range f.Holidays {
		norm, err := datecycle.NormalizeDate(d)
		if err != nil {
			return false, fmt.Errorf("%w: %v", common.ErrValidation, err)
		}
		holidays = append(holidays, norm)
	}
	slices.Sort(holidays)
	holidays = slices.Compact(holidays)

	err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if f.Settings != nil {
			st, err := f.Settings.toModel()
			if err != nil {
				return err
			}
			if err := m.Settings(tx).Update(ctx, st); err != nil {
				return err
			}
		}
		if len(holidays) > 0 {
			if err := m.Holidays(tx).Replace(ctx, holidays); err != nil {
				return err
			}
		}

		accounts := append([]Account{f.Admin}, f.Users...)
		for i, a := range accounts {
			role := models.RoleUser
			if i == 0 {
				role = models.RoleSystemAdmin
			}
			data, pin, err := a.toModel(role)
			if err != nil {
				return err
			}
			if i == 0 && data.Role != models.RoleSystemAdmin {
				return fmt.Errorf("%w: seed admin must be a system admin", common.ErrValidation)
			}
			hash, err := auth.HashPin(pin)
			if err != nil {
				return err
			}
			if _, err := m.Users(tx).Create(ctx, data, hash); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	log.Info(ctx, "Database seeded", "users", 1+len(f.Users), "holidays", len(holidays))
	return true, nil
}
