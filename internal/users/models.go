package users

import (
	"errors"
	"fmt"
	"time"

	"smartpersona/internal/auth"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("users: not found")
	ErrUsernameTaken   = errors.New("users: username already taken")
	ErrInvalidArgument = errors.New("users: invalid argument")
)

// User mirrors a row of the users table.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	DisplayName  string    `json:"display_name,omitempty" db:"display_name"`
	Role         auth.Role `json:"role" db:"role"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// NewUser is the insert shape. PasswordHash must already be derived.
type NewUser struct {
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         auth.Role
}

// Credential is what login needs from a stored user.
type Credential struct {
	SubjectID    string
	PasswordHash string
	Role         auth.Role
}

// Values of the user_role Postgres enum.
const (
	dbRolePersonaUser = "persona_user"
	dbRoleCompanyUser = "company_user"
	dbRoleAdmin       = "admin"
)

func roleFromDB(s string) (auth.Role, error) {
	switch s {
	case dbRolePersonaUser:
		return auth.RoleUser, nil
	case dbRoleCompanyUser:
		return auth.RoleUserAndCompany, nil
	case dbRoleAdmin:
		return auth.RoleAdmin, nil
	default:
		return 0, fmt.Errorf("users: unknown stored role %q", s)
	}
}

func roleToDB(r auth.Role) (string, error) {
	switch r {
	case auth.RoleUser:
		return dbRolePersonaUser, nil
	case auth.RoleUserAndCompany:
		return dbRoleCompanyUser, nil
	case auth.RoleAdmin:
		return dbRoleAdmin, nil
	default:
		return "", fmt.Errorf("%w: role %s", ErrInvalidArgument, r)
	}
}
