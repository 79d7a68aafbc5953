// Package models defines the records shared by the tripshare client and
// server: users, plans, allocations and system settings.
package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tripshare/internal/common"
)

// User is a group member. The PIN is never part of this record; it only
// travels in login and update requests.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Role      Role   `json:"role"`
	SendEmail bool   `json:"sendEmail"`
}

// Identifier is what a profile login submits: the email when present,
// the display name otherwise.
func (u User) Identifier() string {
	if u.Email != "" {
		return u.Email
	}
	return u.Name
}

// FirstName is the first word of the display name.
func (u User) FirstName() string {
	f := strings.Fields(u.Name)
	if len(f) == 0 {
		return ""
	}
	return f[0]
}

// UserData carries the editable fields of a user.
type UserData struct {
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Role      Role   `json:"role"`
	SendEmail bool   `json:"sendEmail"`
}

// Validate checks the fields every create/update needs.
func (d UserData) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", common.ErrValidation)
	}
	if err := d.Role.Validate(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return nil
}

// Data returns the editable part of u.
func (u User) Data() UserData {
	return UserData{Name: u.Name, Email: u.Email, Role: u.Role, SendEmail: u.SendEmail}
}
