package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/tripshare/internal/common"
)

func TestRole_JSONUsesNames(t *testing.T) {
	b, err := json.Marshal(User{ID: 1, Name: "Alice", Role: RoleAllocationAdmin})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"role":"AllocationAdmin"`)

	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":2,"name":"Bob","role":"systemadmin"}`), &u))
	assert.Equal(t, RoleSystemAdmin, u.Role)

	require.Error(t, json.Unmarshal([]byte(`{"role":"Superuser"}`), &u))
}

func TestRole_ZeroValueIsInvalid(t *testing.T) {
	var r Role
	require.ErrorIs(t, r.Validate(), ErrUnknownRole)
	_, err := json.Marshal(struct{ R Role }{r})
	require.Error(t, err)
	require.ErrorIs(t, Role(9).Validate(), ErrUnknownRole)
}

func TestRole_Rank(t *testing.T) {
	assert.Less(t, RoleSystemAdmin.Rank(), RoleAllocationAdmin.Rank())
	assert.Less(t, RoleAllocationAdmin.Rank(), RoleUser.Rank())
}

func TestUser_Identifier(t *testing.T) {
	assert.Equal(t, "alice@example.com", User{Name: "Alice", Email: "alice@example.com"}.Identifier())
	assert.Equal(t, "Bob Stone", User{Name: "Bob Stone"}.Identifier())
	assert.Equal(t, "Bob", User{Name: "Bob Stone"}.FirstName())
}

func TestUserData_Validate(t *testing.T) {
	require.ErrorIs(t, UserData{Name: " ", Role: RoleUser}.Validate(), common.ErrValidation)
	require.ErrorIs(t, UserData{Name: "Ann"}.Validate(), common.ErrValidation)
	require.NoError(t, UserData{Name: "Ann", Role: RoleUser}.Validate())
}

func TestPlan_Normalize(t *testing.T) {
	p := Plan{UserID: 7, Month: time.June, Year: 2025, SelectedDays: []int{22, 3, 15, 3}}
	got, err := p.Normalize()
	require.NoError(t, err)
	assert.Equal(t, []int{3, 15, 22}, got.SelectedDays)

	_, err = Plan{UserID: 7, Month: time.June, Year: 2025, SelectedDays: []int{31}}.Normalize()
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = Plan{UserID: 7, Month: 0, Year: 2025}.Normalize()
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = Plan{Month: time.June, Year: 2025}.Normalize()
	require.ErrorIs(t, err, common.ErrValidation)

	feb, err := Plan{UserID: 1, Month: time.February, Year: 2024, SelectedDays: []int{29}}.Normalize()
	require.NoError(t, err)
	assert.True(t, feb.Has(29))
}

func TestPlan_Toggle(t *testing.T) {
	p := Plan{SelectedDays: []int{3, 15}}
	p2 := p.Toggle(9)
	assert.Equal(t, []int{3, 9, 15}, p2.SelectedDays)
	assert.Equal(t, []int{3, 15}, p.SelectedDays)
	assert.Equal(t, []int{3, 9}, p2.Toggle(15).SelectedDays)
}

func TestAllocation_Helpers(t *testing.T) {
	a := Allocation{
		Date:       "2025-06-03",
		BookerID:   1,
		BookerName: "Alice",
		Travelers:  []Traveler{{1, "Alice"}, {2, "Bob"}},
	}
	require.NoError(t, a.Validate())
	assert.True(t, a.HasTraveler(2))
	assert.False(t, a.HasTraveler(3))
	assert.True(t, a.Involves(1))
	assert.Equal(t, []Traveler{{2, "Bob"}}, a.Companions(1))
	assert.Equal(t, []string{"Alice", "Bob"}, a.TravelerNames())
	assert.Equal(t, 2025, a.Period().Year)

	require.Error(t, Allocation{Date: "2025-06-03", BookerID: 1}.Validate())
	require.Error(t, Allocation{Date: "x", BookerID: 1, Travelers: a.Travelers}.Validate())
}

func TestSettings_Validate(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.Validate())

	s.TripPrice = decimal.NewFromInt(-1)
	require.ErrorIs(t, s.Validate(), common.ErrValidation)

	s = DefaultSettings()
	s.ArrivalLabel = s.DepartureLabel
	require.ErrorIs(t, s.Validate(), common.ErrValidation)

	assert.True(t, DefaultSettings().IsTripLabel(""))
	assert.True(t, DefaultSettings().IsTripLabel("Arrival"))
	assert.False(t, DefaultSettings().IsTripLabel("Return"))
}

func TestSettings_PriceAcceptsNumberAndString(t *testing.T) {
	var s SystemSettings
	require.NoError(t, json.Unmarshal([]byte(`{"tripPrice":250.5}`), &s))
	assert.True(t, s.TripPrice.Equal(decimal.RequireFromString("250.5")))
	require.NoError(t, json.Unmarshal([]byte(`{"tripPrice":"99"}`), &s))
	assert.True(t, s.TripPrice.Equal(decimal.NewFromInt(99)))
}
