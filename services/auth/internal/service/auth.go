package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/bookshelf/pkg/apperr"
	"github.com/Skotchmaster/bookshelf/pkg/events"
	"github.com/Skotchmaster/bookshelf/pkg/logging"
	"github.com/Skotchmaster/bookshelf/pkg/tokens"
	"github.com/Skotchmaster/bookshelf/services/auth/internal/models"
	"github.com/Skotchmaster/bookshelf/services/auth/internal/repo"
)

var (
	ErrMissingFields      = fmt.Errorf("username, email, and password are required: %w", apperr.ErrValidation)
	ErrMissingCredentials = fmt.Errorf("email and password are required: %w", apperr.ErrValidation)
	ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", apperr.ErrAuth)
	ErrUserNotFound       = fmt.Errorf("user not found: %w", apperr.ErrNotFound)
)

type AuthService struct {
	Repo   *repo.UserRepo
	Tokens *tokens.Service
	Events events.Publisher
	Now    func() time.Time
}

type LoginResult struct {
	User      models.User
	Token     string
	ExpiresIn string
	ExpiresAt time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register", "username", username)

	if username == "" || email == "" || password == "" {
		l.Warn("register_failed", "status", 400, "reason", "missing fields")
		return nil, ErrMissingFields
	}

	created, err := s.Repo.Create(ctx, models.User{
		Username:     username,
		Email:        email,
		Password:     password,
		RegisteredAt: s.now().Format(models.TimestampLayout),
	})
	switch {
	case errors.Is(err, repo.ErrUsernameTaken), errors.Is(err, repo.ErrEmailTaken):
		l.Warn("register_failed", "status", 409, "reason", err.Error())
		return nil, fmt.Errorf("%w: %w", err, apperr.ErrConflict)
	case err != nil:
		l.Error("register_failed", "status", 500, "error", err)
		return nil, fmt.Errorf("register user: %w", err)
	}

	public := created.Public()
	s.publish(ctx, events.TypeUserRegistered, public)
	l.Info("user_registered", "user_id", public.ID)
	return &public, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if email == "" || password == "" {
		l.Warn("login_failed", "status", 400, "reason", "missing credentials")
		return nil, ErrMissingCredentials
	}

	user, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		l.Error("users_read_failed", "error", err)
		user = nil
	}
	if user == nil || user.Password != password {
		l.Warn("login_failed", "status", 401, "reason", "invalid email or password")
		return nil, ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot issue token", "error", err)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	l.Info("login_successful", "user_id", user.ID)
	return &LoginResult{
		User:      user.Public(),
		Token:     token,
		ExpiresIn: tokens.ExpiresInLabel,
		ExpiresAt: s.now().Add(tokens.TTL),
	}, nil
}

func (s *AuthService) ResolveUser(ctx context.Context, id int64) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.resolve_user", "user_id", id)

	user, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		l.Error("users_read_failed", "error", err)
		return nil, ErrUserNotFound
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	public := user.Public()
	return &public, nil
}

func (s *AuthService) publish(ctx context.Context, eventType string, user models.User) {
	if s.Events == nil {
		return
	}
	key := fmt.Sprint(user.ID)
	if err := s.Events.Publish(ctx, events.TopicUsers, key, events.NewEvent(eventType, user)); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", events.TopicUsers, "type", eventType, "error", err)
	}
}
