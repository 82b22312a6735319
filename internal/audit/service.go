package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
// It MUST be append-only.
type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service records authentication events.
// Callers should treat audit logging as best-effort.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Type == "" || e.Tier == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// LogLogin records the outcome of a login attempt.
func (s *Service) LogLogin(ctx context.Context, typ EventType, tier, username, actorUserID, actorRole, ip, message string) error {
	return s.Append(ctx, Event{
		Type:        typ,
		Tier:        tier,
		Username:    username,
		ActorUserID: actorUserID,
		ActorRole:   actorRole,
		IPAddress:   ip,
		Message:     message,
	})
}

// LogRefresh records a refresh rotation or rejection.
func (s *Service) LogRefresh(ctx context.Context, typ EventType, tier, actorUserID, actorRole, ip string) error {
	return s.Append(ctx, Event{
		Type:        typ,
		Tier:        tier,
		ActorUserID: actorUserID,
		ActorRole:   actorRole,
		IPAddress:   ip,
	})
}
