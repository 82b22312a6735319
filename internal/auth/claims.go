package auth

import "github.com/golang-jwt/jwt/v5"

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims are the only supported JWT claims shape for this service.
// Subject carries the user id; IssuedAt and ExpiresAt are second precision.
type Claims struct {
	jwt.RegisteredClaims

	Role      Role      `json:"role"`
	TokenType TokenType `json:"token_type"`
}

// Passport is the token pair handed to a client after login or refresh.
// It is never stored server-side.
type Passport struct {
	AccessToken  string
	RefreshToken string
}
