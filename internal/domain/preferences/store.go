// internal/domain/preferences/store.go
package preferences

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/butcher-storefront/internal/infrastructure/storage"
)

// Theme is the shopper's colour scheme
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

const (
	themeKey = "theme"
	pinKey   = "wholesale_pin"
)

// ErrInvalidTheme is returned for an unknown theme name
var ErrInvalidTheme = errors.New("theme must be light, dark or system")

// ParseTheme validates a theme name
func ParseTheme(v string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(v))); t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return t, nil
	}
	return "", ErrInvalidTheme
}

// Store keeps per-session preferences in memory and mirrors them to kv
type Store struct {
	kv  storage.KV
	log *logrus.Entry

	mu    sync.RWMutex
	theme Theme
	pin   string
}

// NewStore loads persisted preferences; unreadable values fall back to defaults
func NewStore(ctx context.Context, kv storage.KV, log *logrus.Entry) *Store {
	s := &Store{kv: kv, log: log, theme: ThemeSystem}

	if raw, err := kv.Get(ctx, themeKey); err == nil {
		if t, err := ParseTheme(raw); err == nil {
			s.theme = t
		} else {
			log.WithField("theme", raw).Warn("ignoring persisted theme")
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		log.WithError(err).Warn("failed to load theme")
	}

	if raw, err := kv.Get(ctx, pinKey); err == nil {
		s.pin = strings.TrimSpace(raw)
	} else if !errors.Is(err, storage.ErrNotFound) {
		log.WithError(err).Warn("failed to load wholesale pin")
	}

	return s
}

// Theme returns the current theme, system by default
func (s *Store) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme stores a validated theme
func (s *Store) SetTheme(ctx context.Context, theme Theme) error {
	if _, err := ParseTheme(string(theme)); err != nil {
		return err
	}

	s.mu.Lock()
	s.theme = theme
	s.mu.Unlock()

	if err := s.kv.Set(ctx, themeKey, string(theme)); err != nil {
		return fmt.Errorf("failed to persist theme: %w", err)
	}
	return nil
}

// WholesalePin returns the stored pin, empty when retail pricing applies
func (s *Store) WholesalePin() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pin
}

// SetWholesalePin stores the pin; a blank pin clears it
func (s *Store) SetWholesalePin(ctx context.Context, pin string) error {
	pin = strings.TrimSpace(pin)
	if pin == "" {
		return s.ClearWholesalePin(ctx)
	}

	s.mu.Lock()
	s.pin = pin
	s.mu.Unlock()

	if err := s.kv.Set(ctx, pinKey, pin); err != nil {
		return fmt.Errorf("failed to persist wholesale pin: %w", err)
	}
	return nil
}

// ClearWholesalePin returns the session to retail pricing
func (s *Store) ClearWholesalePin(ctx context.Context) error {
	s.mu.Lock()
	s.pin = ""
	s.mu.Unlock()

	if err := s.kv.Delete(ctx, pinKey); err != nil {
		return fmt.Errorf("failed to clear wholesale pin: %w", err)
	}
	return nil
}
