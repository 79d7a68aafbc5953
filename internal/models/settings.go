package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/tripshare/internal/common"
)

// SystemSettings is the process-wide configuration edited by system admins.
type SystemSettings struct {
	DepartureLabel          string          `json:"departureLabel"`
	ArrivalLabel            string          `json:"arrivalLabel"`
	TripPrice               decimal.Decimal `json:"tripPrice"`
	AllocateForCurrentMonth bool            `json:"allocateForCurrentMonth"`
	UserListViewEnabled     bool            `json:"userListViewEnabled"`
}

// DefaultSettings is used until a system admin saves real values.
func DefaultSettings() SystemSettings {
	return SystemSettings{
		DepartureLabel:      "Departure",
		ArrivalLabel:        "Arrival",
		TripPrice:           decimal.Zero,
		UserListViewEnabled: true,
	}
}

func (s SystemSettings) Validate() error {
	if strings.TrimSpace(s.DepartureLabel) == "" || strings.TrimSpace(s.ArrivalLabel) == "" {
		return fmt.Errorf("%w: trip labels are required", common.ErrValidation)
	}
	if s.DepartureLabel == s.ArrivalLabel {
		return fmt.Errorf("%w: trip labels must differ", common.ErrValidation)
	}
	if s.TripPrice.IsNegative() {
		return fmt.Errorf("%w: trip price must not be negative", common.ErrValidation)
	}
	return nil
}

// TripLabels returns the two trip-type labels in departure, arrival order.
func (s SystemSettings) TripLabels() [2]string {
	return [2]string{s.DepartureLabel, s.ArrivalLabel}
}

// IsTripLabel reports whether label is empty or one of the configured labels.
func (s SystemSettings) IsTripLabel(label string) bool {
	return label == "" || label == s.DepartureLabel || label == s.ArrivalLabel
}
