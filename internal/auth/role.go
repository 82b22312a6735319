package auth

import (
	"fmt"
)

// Role is the closed set of principals a token may carry.
// The zero value is not a valid role.
type Role uint8

const (
	RoleUser Role = iota + 1
	RoleUserAndCompany
	RoleAdmin
)

// Wire names. Keep these stable; they are part of the token contract.
const (
	roleUserName           = "user"
	roleUserAndCompanyName = "user_and_company"
	roleAdminName          = "admin"
)

func ParseRole(s string) (Role, error) {
	switch s {
	case roleUserName:
		return RoleUser, nil
	case roleUserAndCompanyName:
		return RoleUserAndCompany, nil
	case roleAdminName:
		return RoleAdmin, nil
	default:
		return 0, fmt.Errorf("auth: unknown role %q", s)
	}
}

func (r Role) Valid() bool {
	return r >= RoleUser && r <= RoleAdmin
}

func (r Role) String() string {
	switch r {
	case RoleUser:
		return roleUserName
	case RoleUserAndCompany:
		return roleUserAndCompanyName
	case RoleAdmin:
		return roleAdminName
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// Tier returns the secret tier that governs tokens for r.
// It panics for a role outside the closed set: issuing for one is a bug.
func (r Role) Tier() Tier {
	switch r {
	case RoleUser, RoleUserAndCompany:
		return TierUser
	case RoleAdmin:
		return TierAdmin
	default:
		panic(fmt.Sprintf("auth: no tier for %s", r))
	}
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("auth: cannot encode %s", r)
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	v, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Tier selects one of the two independent secret pairs.
type Tier uint8

const (
	TierUser Tier = iota + 1
	TierAdmin
)

func (t Tier) String() string {
	switch t {
	case TierUser:
		return "user"
	case TierAdmin:
		return "admin"
	default:
		return fmt.Sprintf("tier(%d)", uint8(t))
	}
}
