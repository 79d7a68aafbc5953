package rpc

import (
	"github.com/dmitrijs2005/tripshare/internal/models"
)

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Pin        string `json:"pin"`
}

type LoginResponse struct {
	User        models.User `json:"user"`
	AccessToken string      `json:"accessToken"`
}

type ListUsersResponse struct {
	Users []models.User `json:"users"`
}

type CreateUserRequest struct {
	Data    models.UserData `json:"data"`
	Pin     string          `json:"pin,omitempty"`
	ActorID int64           `json:"actorUserId"`
}

type UpdateUserRequest struct {
	ID         int64           `json:"id"`
	Data       models.UserData `json:"data"`
	ActorID    int64           `json:"actorUserId"`
	NewPin     string          `json:"newPin,omitempty"`
	CurrentPin string          `json:"currentPin,omitempty"`
}

type UserResponse struct {
	User models.User `json:"user"`
}

type DeleteUserRequest struct {
	ID      int64 `json:"id"`
	ActorID int64 `json:"actorUserId"`
}

// PeriodRequest selects a month. Month is 1..12.
type PeriodRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type PlansResponse struct {
	Plans []models.Plan `json:"plans"`
}

type SubmitPlanRequest struct {
	Plan models.Plan `json:"plan"`
}

type SubmitPlanResponse struct {
	Plan        models.Plan `json:"plan"`
	MarkedStale bool        `json:"markedStale"`
}

type AllocationsResponse struct {
	Year        int                 `json:"year"`
	Month       int                 `json:"month"`
	Allocations []models.Allocation `json:"allocations"`
}

// GenerateRequest asks for a new allocation batch. A zero Year/Month
// selects the active month.
type GenerateRequest struct {
	ActorID int64 `json:"actorUserId"`
	Year    int   `json:"year,omitempty"`
	Month   int   `json:"month,omitempty"`
}

type HolidaysResponse struct {
	Dates []string `json:"dates"`
}

type UpdateHolidaysRequest struct {
	Dates   []string `json:"dates"`
	ActorID int64    `json:"actorUserId"`
}

type SettingsResponse struct {
	Settings models.SystemSettings `json:"settings"`
}

type UpdateSettingsRequest struct {
	Settings models.SystemSettings `json:"settings"`
	ActorID  int64                 `json:"actorUserId"`
}

type StaleUsersResponse struct {
	Names []string `json:"names"`
}
