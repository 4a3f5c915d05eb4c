package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-task-sync/internal/adapter"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/models"
)

type clientAuthService struct {
	sessions store.LocalSessionRepository
	adapter  adapter.ServerAdapter
}

func NewClientAuthService(sessions store.LocalSessionRepository, serverAdapter adapter.ServerAdapter) ClientAuthService {
	return &clientAuthService{sessions: sessions, adapter: serverAdapter}
}

func (a *clientAuthService) Register(ctx context.Context, user models.User) error {
	if user.Login == "" || user.Password == "" {
		return ErrInvalidDataProvided
	}

	registered, err := a.adapter.Register(ctx, user)
	if err != nil {
		return mapAdapterError(err)
	}

	return a.saveSession(ctx, registered.Login)
}

func (a *clientAuthService) Login(ctx context.Context, user models.User) error {
	if user.Login == "" || user.Password == "" {
		return ErrInvalidDataProvided
	}

	found, err := a.adapter.Login(ctx, user)
	if err != nil {
		return mapAdapterError(err)
	}

	return a.saveSession(ctx, found.Login)
}

func (a *clientAuthService) Logout(ctx context.Context) error {
	a.adapter.SetToken("")
	if err := a.sessions.ClearSession(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (a *clientAuthService) Restore(ctx context.Context) (models.Session, error) {
	session, err := a.sessions.Session(ctx)
	if errors.Is(err, store.ErrLocalSessionNotFound) {
		return models.Session{}, ErrNotLoggedIn
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("load session: %w", err)
	}
	if session.Token == "" {
		return models.Session{}, ErrNotLoggedIn
	}

	a.adapter.SetToken(session.Token)
	return session, nil
}

func (a *clientAuthService) saveSession(ctx context.Context, login string) error {
	session := models.Session{Login: login, Token: a.adapter.Token()}
	if session.Token == "" {
		return ErrTokenIsExpiredOrInvalid
	}

	if err := a.sessions.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
