package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"bankloan-web/internal/adapters/persistence/repositories"
	"bankloan-web/internal/core/domain"
	"bankloan-web/internal/pkg/sealer"
	"bankloan-web/internal/pkg/token"

	"go.uber.org/zap"
)

// SessionStore owns the client's single session. Memory and the durable slot
// are updated together; only AuthService writes to it.
type SessionStore struct {
	mu      sync.RWMutex
	repo    repositories.SessionRepository
	sealer  *sealer.Sealer
	decoder TokenDecoder
	log     *zap.Logger
	current domain.Session
}

// NewSessionStore creates an empty (anonymous) store. Call Restore to load
// the persisted session.
func NewSessionStore(repo repositories.SessionRepository, s *sealer.Sealer, decoder TokenDecoder, log *zap.Logger) *SessionStore {
	return &SessionStore{
		repo:    repo,
		sealer:  s,
		decoder: decoder,
		log:     log,
	}
}

// Current returns the in-memory session
func (s *SessionStore) Current() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Restore rebuilds the session from the durable slot. A stored token that
// cannot be opened or decoded is discarded and the session stays anonymous.
func (s *SessionStore) Restore(ctx context.Context) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = domain.Session{}

	sealed, err := s.repo.Load(ctx)
	if errors.Is(err, repositories.ErrSlotEmpty) {
		s.log.Info("no stored session", zap.Stringer("state", StateAnonymous))
		return s.current, nil
	}
	if err != nil {
		return s.current, fmt.Errorf("load session slot: %w", err)
	}

	raw, err := s.sealer.Open(sealed)
	if err == nil {
		var sess domain.Session
		if sess, err = s.derive(raw); err == nil {
			s.current = sess
			s.log.Info("session restored",
				zap.Stringer("state", StateAuthenticated),
				zap.String("role", string(sess.Role)),
				zap.String("token", token.Fingerprint(raw)),
			)
			return s.current, nil
		}
	}

	s.log.Warn("stored session discarded",
		zap.Stringer("from", StateInvalid),
		zap.Stringer("to", StateAnonymous),
		zap.Error(err),
	)
	if delErr := s.repo.Delete(ctx); delErr != nil {
		return s.current, fmt.Errorf("discard session slot: %w", delErr)
	}
	return s.current, nil
}

// Save stores a freshly issued token. The role is derived from the token;
// role is the role the API reported alongside it and is only cross-checked.
// A token that does not decode drops the session.
func (s *SessionStore) Save(ctx context.Context, raw, role string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.derive(raw)
	if err != nil {
		s.log.Warn("issued token rejected", zap.Stringer("to", StateAnonymous), zap.Error(err))
		s.clearLocked(ctx)
		return domain.Session{}, err
	}
	if role != "" && role != string(sess.Role) {
		s.log.Warn("login role differs from token role",
			zap.String("reported", role),
			zap.String("token", string(sess.Role)),
		)
	}

	sealed, err := s.sealer.Seal(raw)
	if err != nil {
		return s.current, fmt.Errorf("seal token: %w", err)
	}
	if err := s.repo.Store(ctx, sealed); err != nil {
		return s.current, fmt.Errorf("store session slot: %w", err)
	}

	s.current = sess
	s.log.Info("session saved",
		zap.Stringer("state", StateAuthenticated),
		zap.String("role", string(sess.Role)),
		zap.String("token", token.Fingerprint(raw)),
	)
	return s.current, nil
}

// Clear drops the session. Memory is always cleared; the returned error only
// reports a failure to empty the durable slot.
func (s *SessionStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked(ctx)
}

func (s *SessionStore) clearLocked(ctx context.Context) error {
	s.current = domain.Session{}
	if err := s.repo.Delete(ctx); err != nil {
		s.log.Error("failed to empty session slot", zap.Error(err))
		return fmt.Errorf("delete session slot: %w", err)
	}
	s.log.Info("session cleared", zap.Stringer("state", StateAnonymous))
	return nil
}

// derive decodes raw into a session
func (s *SessionStore) derive(raw string) (domain.Session, error) {
	claims, err := s.decoder.Decode(raw)
	if err != nil {
		return domain.Session{}, err
	}
	role, ok := domain.ParseRole(claims.Role)
	if !ok {
		return domain.Session{}, fmt.Errorf("%w: %q", domain.ErrUnknownRole, claims.Role)
	}
	return domain.Session{Token: raw, Role: role, Username: claims.Username}, nil
}
