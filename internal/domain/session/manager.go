// internal/domain/session/manager.go
package session

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/butcher-storefront/internal/domain/admin"
	"github.com/your-org/butcher-storefront/internal/domain/cart"
	"github.com/your-org/butcher-storefront/internal/domain/catalog"
	"github.com/your-org/butcher-storefront/internal/domain/order"
	"github.com/your-org/butcher-storefront/internal/domain/preferences"
	"github.com/your-org/butcher-storefront/internal/domain/stock"
	"github.com/your-org/butcher-storefront/internal/infrastructure/remote"
	"github.com/your-org/butcher-storefront/internal/infrastructure/storage"
)

// Options configures a Manager
type Options struct {
	KV          storage.KV
	KeyPrefix   string
	Remote      *remote.Client
	Catalog     *catalog.Service
	Debounce    time.Duration
	IdleTimeout time.Duration
	Log         *logrus.Logger
}

// Manager owns the live workspaces, one per browser session. Workspaces
// are rebuilt from storage on first use and dropped after IdleTimeout.
type Manager struct {
	opts Options
	now  func() time.Time

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

// NewManager creates a new session manager
func NewManager(opts Options) *Manager {
	return &Manager{
		opts:       opts,
		now:        time.Now,
		workspaces: make(map[string]*Workspace),
	}
}

// Get returns the workspace for id, restoring it from storage if needed
func (m *Manager) Get(ctx context.Context, id string) *Workspace {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if ws, ok := m.workspaces[id]; ok {
		ws.touch(now)
		return ws
	}

	ws := m.build(ctx, id)
	ws.touch(now)
	m.workspaces[id] = ws
	return ws
}

func (m *Manager) build(ctx context.Context, id string) *Workspace {
	log := m.opts.Log.WithField("session_id", id)
	kv := storage.NewNamespace(m.opts.KV, m.opts.KeyPrefix, "session", id)

	ws := &Workspace{
		ID:          id,
		Cart:        cart.NewStore(ctx, kv, log),
		Checker:     stock.NewChecker(m.opts.Remote, stock.NewIssues(), m.opts.Debounce, log),
		Preferences: preferences.NewStore(ctx, kv, log),
		Admin:       admin.NewSession(ctx, kv, log),
		catalog:     m.opts.Catalog,
		log:         log,
	}
	ws.AdminAPI = m.opts.Remote.Admin(ws.Credentials)
	ws.Orders = order.NewBook(ws.AdminAPI, log)
	ws.adminService = admin.NewService(ws.AdminAPI, ws.Orders, m.opts.Catalog, ws.Admin, log)

	log.Debug("session workspace restored")
	return ws
}

// Sweep closes workspaces idle for longer than IdleTimeout and returns
// how many were dropped. Their persisted state stays in storage.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	dropped := 0
	for id, ws := range m.workspaces {
		if ws.idleSince(now) < m.opts.IdleTimeout {
			continue
		}
		ws.Close()
		delete(m.workspaces, id)
		dropped++
	}
	if dropped > 0 {
		m.opts.Log.WithFields(logrus.Fields{
			"dropped": dropped,
			"live":    len(m.workspaces),
		}).Debug("idle sessions swept")
	}
	return dropped
}

// Run sweeps every interval until ctx is done
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Len returns the number of live workspaces
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workspaces)
}

// Close closes every workspace
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, ws := range m.workspaces {
		ws.Close()
		delete(m.workspaces, id)
	}
}
