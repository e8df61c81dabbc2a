// internal/domain/stock/checker.go
package stock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// API runs the authoritative stock check. It returns nil when every line
// can be served, a *ConflictError listing conflicts, or any other error
// for transport and server failures.
type API interface {
	CheckStock(ctx context.Context, lines []Line) error
}

// Checker debounces stock checks for one cart. Every Schedule, CheckNow,
// Apply or Reset takes a new generation; a response is applied only if
// its generation is still the latest, so a superseded check can never
// overwrite newer conflict data.
type Checker struct {
	api    API
	issues *Issues
	quiet  time.Duration
	log    *logrus.Entry

	base       context.Context
	baseCancel context.CancelFunc

	mu       sync.Mutex
	gen      uint64
	timer    *time.Timer
	inflight context.CancelFunc
	closed   bool
}

// NewChecker creates a checker writing into issues
func NewChecker(api API, issues *Issues, quiet time.Duration, log *logrus.Entry) *Checker {
	base, cancel := context.WithCancel(context.Background())
	return &Checker{
		api:        api,
		issues:     issues,
		quiet:      quiet,
		log:        log,
		base:       base,
		baseCancel: cancel,
	}
}

// Issues returns the issue set this checker maintains
func (c *Checker) Issues() *Issues {
	return c.issues
}

// Schedule fires a check after the quiet period, superseding any pending
// or in-flight check
func (c *Checker) Schedule(lines []Line) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	gen := c.supersedeLocked()
	snapshot := append([]Line(nil), lines...)
	c.timer = time.AfterFunc(c.quiet, func() {
		c.run(gen, snapshot)
	})
}

// CheckNow runs a synchronous check, used right before placing an order.
// It returns a *ConflictError when the API reports conflicts. Other
// failures are logged and treated as no known issues; the order
// submission re-checks stock server-side anyway.
func (c *Checker) CheckNow(ctx context.Context, lines []Line) error {
	c.mu.Lock()
	gen := c.supersedeLocked()
	c.mu.Unlock()

	if len(lines) == 0 {
		c.apply(gen, nil)
		return nil
	}

	err := c.api.CheckStock(ctx, lines)
	c.apply(gen, err)

	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict
	}
	return nil
}

// Apply records conflicts learned elsewhere, e.g. a 409 on order submit
func (c *Checker) Apply(issues []Issue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.supersedeLocked()
	c.issues.Replace(issues)
}

// Reset drops pending work and clears all issues
func (c *Checker) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.supersedeLocked()
	c.issues.Clear()
}

// Close cancels pending and in-flight checks; later calls are ignored
func (c *Checker) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.supersedeLocked()
	c.closed = true
	c.baseCancel()
}

func (c *Checker) supersedeLocked() uint64 {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.inflight != nil {
		c.inflight()
		c.inflight = nil
	}
	return c.gen
}

func (c *Checker) run(gen uint64, lines []Line) {
	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(c.base)
	c.inflight = cancel
	c.timer = nil
	c.mu.Unlock()
	defer cancel()

	if len(lines) == 0 {
		c.apply(gen, nil)
		return
	}
	c.apply(gen, c.api.CheckStock(ctx, lines))
}

func (c *Checker) apply(gen uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		c.log.WithField("generation", gen).Debug("discarding superseded stock check")
		return
	}
	c.inflight = nil

	var conflict *ConflictError
	switch {
	case err == nil:
		c.issues.Clear()
	case errors.As(err, &conflict):
		c.issues.Replace(conflict.Issues)
		c.log.WithField("issues", len(conflict.Issues)).Info("stock conflicts reported")
	default:
		c.issues.Clear()
		c.log.WithError(err).Warn("stock check failed, assuming no known issues")
	}
}
