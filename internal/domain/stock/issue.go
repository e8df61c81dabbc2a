// internal/domain/stock/issue.go
package stock

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Reason explains a backend-reported stock conflict
type Reason string

const (
	ReasonNotFound     Reason = "NOT_FOUND"
	ReasonInactive     Reason = "INACTIVE"
	ReasonInsufficient Reason = "INSUFFICIENT"
)

// Issue is a transient conflict for one product, never persisted
type Issue struct {
	ProductID string `json:"productId"`
	Name      string `json:"name,omitempty"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
	Reason    Reason `json:"reason"`
}

// Line is a product id and requested quantity as sent to the stock check
type Line struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// ConflictError carries the issues that block an order
type ConflictError struct {
	Issues []Issue
}

func (e *ConflictError) Error() string {
	ids := make([]string, 0, len(e.Issues))
	for _, i := range e.Issues {
		ids = append(ids, i.ProductID)
	}
	return fmt.Sprintf("stock conflict for %d product(s): %s", len(e.Issues), strings.Join(ids, ", "))
}

// Issues is the current conflict set, keyed by product id
type Issues struct {
	mu     sync.RWMutex
	issues map[string]Issue
}

// NewIssues creates an empty issue set
func NewIssues() *Issues {
	return &Issues{issues: make(map[string]Issue)}
}

// Replace swaps the whole set for the given issues
func (s *Issues) Replace(issues []Issue) {
	next := make(map[string]Issue, len(issues))
	for _, i := range issues {
		next[i.ProductID] = i
	}
	s.mu.Lock()
	s.issues = next
	s.mu.Unlock()
}

// Clear removes all issues
func (s *Issues) Clear() {
	s.Replace(nil)
}

// Get returns the issue for productID
func (s *Issues) Get(productID string) (Issue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.issues[productID]
	return i, ok
}

// Snapshot returns the issues ordered by product id
func (s *Issues) Snapshot() []Issue {
	s.mu.RLock()
	out := make([]Issue, 0, len(s.issues))
	for _, i := range s.issues {
		out = append(out, i)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(a, b int) bool { return out[a].ProductID < out[b].ProductID })
	return out
}

// Len returns the number of recorded issues
func (s *Issues) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.issues)
}

// Unresolved returns the issues still requiring a fix against the given
// cart lines. An INSUFFICIENT issue resolves once the quantity drops to
// the available amount; other reasons resolve only when the line is gone.
func (s *Issues) Unresolved(lines []Line) []Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Issue
	for _, l := range lines {
		issue, ok := s.issues[l.ProductID]
		if !ok {
			continue
		}
		if issue.Reason == ReasonInsufficient && l.Qty <= issue.Available {
			continue
		}
		out = append(out, issue)
	}
	return out
}
