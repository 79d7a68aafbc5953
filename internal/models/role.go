package models

import (
	"errors"
	"fmt"
	"strings"
)

// Role is the closed set of user roles. Roles are mutually exclusive and
// not hierarchical. The zero value is not a valid role.
type Role uint8

const (
	RoleUser Role = iota + 1
	RoleAllocationAdmin
	RoleSystemAdmin
)

// ErrUnknownRole is returned for any value outside the three defined roles.
var ErrUnknownRole = errors.New("unknown role")

var roleNames = map[Role]string{
	RoleUser:            "User",
	RoleAllocationAdmin: "AllocationAdmin",
	RoleSystemAdmin:     "SystemAdmin",
}

// Roles lists every valid role in display order.
func Roles() []Role {
	return []Role{RoleSystemAdmin, RoleAllocationAdmin, RoleUser}
}

func (r Role) Validate() error {
	if _, ok := roleNames[r]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownRole, uint8(r))
	}
	return nil
}

func (r Role) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// Title is the human label shown next to a profile.
func (r Role) Title() string {
	switch r {
	case RoleSystemAdmin:
		return "System Administrator"
	case RoleAllocationAdmin:
		return "Allocation Administrator"
	case RoleUser:
		return "User"
	}
	return r.String()
}

// Rank orders roles for the login list: system admins first, users last.
func (r Role) Rank() int {
	switch r {
	case RoleSystemAdmin:
		return 0
	case RoleAllocationAdmin:
		return 1
	case RoleUser:
		return 2
	}
	return 3
}

// ParseRole accepts a role name, case-insensitively.
func ParseRole(s string) (Role, error) {
	for r, n := range roleNames {
		if strings.EqualFold(n, strings.TrimSpace(s)) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

func (r Role) MarshalText() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return []byte(roleNames[r]), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
