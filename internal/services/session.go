package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ivanjaven/extension/types"
)

// SessionWindow is how long a session stays fresh without activity.
const SessionWindow = 24 * time.Hour

// SessionRepository defines persistence operations for sessions.
type SessionRepository interface {
	Replace(ctx context.Context, session types.Session) error
	Find(ctx context.Context, sessionID string, authID int, cutoff time.Time) (types.Session, error)
	FindActive(ctx context.Context, authID int, cutoff time.Time) (types.Session, error)
	Touch(ctx context.Context, sessionID string, now time.Time) error
	Delete(ctx context.Context, sessionID string) error
	DeleteByAccount(ctx context.Context, authID int) error
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// SessionService enforces the single-active-session policy.
type SessionService struct {
	repo   SessionRepository
	window time.Duration
}

func NewSessionService(repo SessionRepository) *SessionService {
	return &SessionService{repo: repo, window: SessionWindow}
}

// Create replaces any existing sessions for the account with a fresh one and
// returns its id. After it returns, exactly one session row exists for the
// account.
func (s *SessionService) Create(ctx context.Context, authID int, token, deviceInfo string) (string, error) {
	session := types.Session{
		ID:         uuid.NewString(),
		AuthID:     authID,
		Token:      token,
		DeviceInfo: deviceInfo,
		LastActive: time.Now(),
	}
	if err := s.repo.Replace(ctx, session); err != nil {
		return "", err
	}
	return session.ID, nil
}

// Validate reports whether the session exists, belongs to the account, and is
// still fresh; on success the last-active timestamp slides forward. Storage
// errors count as invalid: the validation path fails closed.
func (s *SessionService) Validate(ctx context.Context, sessionID string, authID int) bool {
	cutoff := time.Now().Add(-s.window)
	session, err := s.repo.Find(ctx, sessionID, authID, cutoff)
	if err != nil {
		return false
	}
	_ = s.repo.Touch(ctx, session.ID, time.Now())
	return true
}

// Active returns the account's current fresh session, if one exists. Used to
// refuse a second login while the first is still live.
func (s *SessionService) Active(ctx context.Context, authID int) (types.Session, bool) {
	cutoff := time.Now().Add(-s.window)
	session, err := s.repo.FindActive(ctx, authID, cutoff)
	if err != nil {
		return types.Session{}, false
	}
	return session, true
}

// Delete removes a session. Idempotent.
func (s *SessionService) Delete(ctx context.Context, sessionID string) error {
	return s.repo.Delete(ctx, sessionID)
}

// InvalidateAccount removes every session for the account.
func (s *SessionService) InvalidateAccount(ctx context.Context, authID int) error {
	return s.repo.DeleteByAccount(ctx, authID)
}

// CleanupExpired removes stale sessions and returns the count removed.
func (s *SessionService) CleanupExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, time.Now().Add(-s.window))
}
