// Package auth issues and validates the opaque bearer tokens that guard
// every mutating API operation.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/apex-athletics/storefront/internal/apperr"
	"github.com/apex-athletics/storefront/pkg/models"
	"github.com/sirupsen/logrus"
)

const tokenBytes = 32

// Authority holds the single configured admin identity and the in-memory
// token map. Tokens live from login until logout or process exit; nothing is
// persisted, so a restart invalidates every session.
type Authority struct {
	email    string
	password string
	logger   *logrus.Logger

	mu       sync.RWMutex
	sessions map[string]models.Session
}

func NewAuthority(email, password string, logger *logrus.Logger) *Authority {
	return &Authority{
		email:    email,
		password: password,
		logger:   logger,
		sessions: make(map[string]models.Session),
	}
}

// Login checks the credentials against the configured admin identity and, on
// success, mints a fresh token mapped to a new session.
func (a *Authority) Login(email, password string) (string, models.Session, error) {
	if email == "" || password == "" {
		return "", models.Session{}, apperr.Validation("email and password are required")
	}
	if email != a.email || password != a.password {
		a.logger.WithField("email", email).Warn("Rejected login attempt")
		return "", models.Session{}, apperr.Auth("invalid email or password")
	}

	token, err := newToken()
	if err != nil {
		return "", models.Session{}, apperr.Wrap(apperr.KindAuth, "could not issue session token", err)
	}
	session := models.Session{
		Email:    a.email,
		IssuedAt: time.Now().UTC(),
	}

	a.mu.Lock()
	a.sessions[token] = session
	a.mu.Unlock()

	a.logger.WithField("email", a.email).Info("Admin session issued")
	return token, session, nil
}

// Validate is a pure lookup. An unknown token is not an error; callers
// translate the missing session into an authorization failure.
func (a *Authority) Validate(token string) (models.Session, bool) {
	if token == "" {
		return models.Session{}, false
	}
	a.mu.RLock()
	session, ok := a.sessions[token]
	a.mu.RUnlock()
	return session, ok
}

// Logout removes the token mapping. Logging out an unknown token is a no-op.
func (a *Authority) Logout(token string) {
	a.mu.Lock()
	_, existed := a.sessions[token]
	delete(a.sessions, token)
	a.mu.Unlock()

	if existed {
		a.logger.Info("Admin session revoked")
	}
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
