package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/tripshare/internal/logging"
	"github.com/dmitrijs2005/tripshare/internal/server/archive"
	"github.com/dmitrijs2005/tripshare/internal/server/config"
)

func TestNewRegistry_WiresConcreteServices(t *testing.T) {
	db, _ := newMockDB(t)
	r := NewRegistry(db, newFakeRM(), archive.Disabled{}, &config.Config{SecretKey: "k", AccessTokenValidityDuration: time.Minute}, logging.Nop())

	assert.IsType(t, &UserService{}, r.Users)
	assert.IsType(t, &PlanService{}, r.Plans)
	assert.IsType(t, &AllocationService{}, r.Allocations)
	assert.IsType(t, &HolidayService{}, r.Holidays)
	assert.IsType(t, &SettingsService{}, r.Settings)
}
