package auth

import "fmt"

// SecretPair holds the access and refresh signing keys of one tier.
type SecretPair struct {
	Access  []byte
	Refresh []byte
}

func (p SecretPair) key(kind TokenType) []byte {
	if kind == TokenTypeRefresh {
		return p.Refresh
	}
	return p.Access
}

// Secrets is the immutable key material of both tiers, built once at startup.
type Secrets struct {
	User  SecretPair
	Admin SecretPair
}

func (s Secrets) For(t Tier) SecretPair {
	switch t {
	case TierUser:
		return s.User
	case TierAdmin:
		return s.Admin
	default:
		panic(fmt.Sprintf("auth: no secrets for %s", t))
	}
}
