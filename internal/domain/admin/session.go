// internal/domain/admin/session.go
package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/butcher-storefront/internal/infrastructure/remote"
	"github.com/your-org/butcher-storefront/internal/infrastructure/storage"
)

const (
	authKey   = "admin_auth"
	cookieKey = "admin_cookie"
)

// ErrNotAuthenticated is returned when an admin call runs without a session
var ErrNotAuthenticated = errors.New("admin session required")

// Authenticator performs the upstream login
type Authenticator interface {
	Login(ctx context.Context, req remote.LoginRequest) (string, *remote.AdminUser, error)
}

// Identity verifies and ends the upstream session
type Identity interface {
	Me(ctx context.Context) (*remote.AdminUser, error)
	Logout(ctx context.Context) error
}

// Session is the browser's admin state: an auth flag plus the upstream
// session cookie to replay. The flag is a hint; the API decides.
type Session struct {
	kv  storage.KV
	log *logrus.Entry

	mu            sync.RWMutex
	authenticated bool
	cookie        string
}

// NewSession restores a persisted admin session, if any
func NewSession(ctx context.Context, kv storage.KV, log *logrus.Entry) *Session {
	s := &Session{kv: kv, log: log}

	flag, err := kv.Get(ctx, authKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.WithError(err).Warn("failed to load admin flag")
		}
		return s
	}
	cookie, err := kv.Get(ctx, cookieKey)
	if err != nil {
		return s
	}
	s.authenticated = flag == "1" && cookie != ""
	if s.authenticated {
		s.cookie = cookie
	}
	return s
}

// Authenticated reports the local auth flag
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Cookie returns the upstream cookie header to attach to admin calls
func (s *Session) Cookie() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cookie
}

// Login signs in upstream and stores the session
func (s *Session) Login(ctx context.Context, auth Authenticator, req remote.LoginRequest) (*remote.AdminUser, error) {
	cookie, user, err := auth.Login(ctx, req)
	if err != nil {
		return nil, err
	}

	// the flag only flips once both keys are stored
	if err := s.kv.Set(ctx, cookieKey, cookie); err != nil {
		s.clear(ctx)
		return nil, fmt.Errorf("failed to persist admin session: %w", err)
	}
	if err := s.kv.Set(ctx, authKey, "1"); err != nil {
		s.clear(ctx)
		return nil, fmt.Errorf("failed to persist admin session: %w", err)
	}

	s.mu.Lock()
	s.authenticated = true
	s.cookie = cookie
	s.mu.Unlock()

	s.log.WithField("username", user.Username).Info("admin signed in")
	return user, nil
}

// Logout ends the upstream session best effort and always clears local state
func (s *Session) Logout(ctx context.Context, api Identity) {
	if s.Authenticated() {
		if err := api.Logout(ctx); err != nil {
			s.log.WithError(err).Warn("upstream logout failed")
		}
	}
	s.clear(ctx)
}

// Verify asks the API who is signed in; a 401 clears the session
func (s *Session) Verify(ctx context.Context, api Identity) (*remote.AdminUser, error) {
	if !s.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	user, err := api.Me(ctx)
	if err != nil {
		return nil, s.Observe(ctx, err)
	}
	return user, nil
}

// Observe clears the session when err is an upstream 401 and returns err
func (s *Session) Observe(ctx context.Context, err error) error {
	if err != nil && remote.IsUnauthorized(err) {
		s.log.Info("admin session rejected upstream, signing out")
		s.clear(ctx)
	}
	return err
}

func (s *Session) clear(ctx context.Context) {
	s.mu.Lock()
	s.authenticated = false
	s.cookie = ""
	s.mu.Unlock()

	for _, key := range []string{authKey, cookieKey} {
		if err := s.kv.Delete(ctx, key); err != nil {
			s.log.WithError(err).WithField("key", key).Warn("failed to clear admin state")
		}
	}
}
