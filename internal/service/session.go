package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
	"github.com/manideepyelugam/Fairlx-sub016/internal/store"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrSessionExpired = errors.New("session expired")
)

// SessionService consumes session identity issued by the external auth
// subsystem. It never creates credentials itself.
type SessionService interface {
	Validate(ctx context.Context, sessionID int64) (*model.User, error)
	Logout(ctx context.Context, sessionID int64) error
}

type sessionService struct {
	sessions store.SessionStore
	users    store.UserStore
}

func NewSessionService(sessions store.SessionStore, users store.UserStore) SessionService {
	return &sessionService{sessions: sessions, users: users}
}

func (s *sessionService) Validate(ctx context.Context, sessionID int64) (*model.User, error) {
	session, err := s.sessions.GetValid(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("getting session: %w", err)
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return user, nil
}

func (s *sessionService) Logout(ctx context.Context, sessionID int64) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
