package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// MsgLoginFailed is shown for every login failure; the cause is only logged
const MsgLoginFailed = "Login failed. Please check your credentials."

// ErrLoginFailed wraps every login failure
var ErrLoginFailed = errors.New("login failed")

// AuthService handles login and logout
type AuthService struct {
	api   LoginAPI
	store *SessionStore
	nav   *Navigator
	log   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(api LoginAPI, store *SessionStore, nav *Navigator, log *zap.Logger) *AuthService {
	return &AuthService{api: api, store: store, nav: nav, log: log}
}

// Login authenticates and stores the issued token. It returns the
// dashboard for the role the login page was opened with, or the home
// route when that role is not recognised.
func (s *AuthService) Login(ctx context.Context, requestedRole, username, password string) (string, error) {
	res, err := s.api.Login(ctx, username, password)
	if err != nil {
		s.log.Info("login rejected", zap.String("username", username), zap.Error(err))
		return "", fmt.Errorf("%w (%v)", ErrLoginFailed, err)
	}

	sess, err := s.store.Save(ctx, res.Access, res.Role)
	if err != nil {
		s.log.Warn("login token unusable", zap.String("username", username), zap.Error(err))
		return "", fmt.Errorf("%w (%v)", ErrLoginFailed, err)
	}

	s.nav.Leave()
	landing := DashboardFor(requestedRole)
	s.log.Info("user logged in",
		zap.String("username", username),
		zap.String("role", string(sess.Role)),
		zap.String("landing", landing),
	)
	return landing, nil
}

// Logout clears the session and unmounts the current view
func (s *AuthService) Logout(ctx context.Context) error {
	s.nav.Leave()
	return s.store.Clear(ctx)
}
