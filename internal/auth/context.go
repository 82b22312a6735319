package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Identity is the authenticated principal of a single request.
type Identity struct {
	Subject string
	Role    Role
}

// SubjectID parses Subject as the user's UUID.
func (i Identity) SubjectID() (uuid.UUID, error) {
	return uuid.Parse(i.Subject)
}

type ctxKey int

const ctxIdentity ctxKey = iota

var ErrNoIdentity = errors.New("identity not in context")

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxIdentity, id)
}

func IdentityFrom(ctx context.Context) (Identity, error) {
	if id, ok := ctx.Value(ctxIdentity).(Identity); ok && id.Subject != "" {
		return id, nil
	}
	return Identity{}, ErrNoIdentity
}
