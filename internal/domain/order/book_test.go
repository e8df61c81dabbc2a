package order

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/butcher-storefront/internal/pkg/logger"
)

type stubAPI struct {
	mu        sync.Mutex
	listCalls int
	list      func(call int) ([]Order, error)
	weights   map[string]Weight
	statuses  map[string]OrderStatus
	weightErr error
	statusErr error
}

func (s *stubAPI) ListOrders(_ context.Context) ([]Order, error) {
	s.mu.Lock()
	call := s.listCalls
	s.listCalls++
	s.mu.Unlock()
	return s.list(call)
}

func (s *stubAPI) RecordWeight(_ context.Context, itemID string, w Weight) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.weightErr != nil {
		return s.weightErr
	}
	if s.weights == nil {
		s.weights = map[string]Weight{}
	}
	s.weights[itemID] = w
	return nil
}

func (s *stubAPI) UpdateStatus(_ context.Context, orderID string, st OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.statusErr != nil {
		return s.statusErr
	}
	if s.statuses == nil {
		s.statuses = map[string]OrderStatus{}
	}
	s.statuses[orderID] = st
	return nil
}

// serverView returns the orders as the server would after applying recorded edits
func (s *stubAPI) serverView() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := mixedOrder()
	if w, ok := s.weights["i2"]; ok {
		o.Items[1].Weight = w
	}
	if st, ok := s.statuses["o1"]; ok {
		o.Status = st
	}
	return []Order{o}
}

func testLog() *logrus.Entry { return logrus.NewEntry(logger.Discard()) }

func TestBook_LoadReconciles(t *testing.T) {
	api := &stubAPI{}
	api.list = func(int) ([]Order, error) { return api.serverView(), nil }
	b := NewBook(api, testLog())

	orders, err := b.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.False(t, orders[0].WeightsComplete)
	assert.True(t, orders[0].Subtotal.Equal(dec("30")))
}

func TestBook_RecordWeightRecomputesTotals(t *testing.T) {
	api := &stubAPI{}
	api.list = func(int) ([]Order, error) { return api.serverView(), nil }
	b := NewBook(api, testLog())
	_, err := b.Load(context.Background())
	require.NoError(t, err)

	o, err := b.RecordWeight(context.Background(), "i2", NewWeight(dec("1.5")))
	require.NoError(t, err)
	assert.True(t, o.WeightsComplete)
	assert.True(t, o.Subtotal.Equal(dec("60")))
	assert.Equal(t, 2, api.listCalls)
}

func TestBook_RecordWeightRejectsNonPositive(t *testing.T) {
	b := NewBook(&stubAPI{}, testLog())
	_, err := b.RecordWeight(context.Background(), "i2", NewWeight(dec("0")))
	assert.ErrorIs(t, err, ErrInvalidWeight)
}

func TestBook_RecordWeightErrorKeepsOptimisticPatch(t *testing.T) {
	api := &stubAPI{weightErr: errors.New("500")}
	api.list = func(int) ([]Order, error) { return []Order{mixedOrder()}, nil }
	b := NewBook(api, testLog())
	_, err := b.Load(context.Background())
	require.NoError(t, err)

	_, err = b.RecordWeight(context.Background(), "i2", NewWeight(dec("2")))
	assert.Error(t, err)

	o, err := b.Find("o1")
	require.NoError(t, err)
	assert.True(t, o.Subtotal.Equal(dec("70")))

	// the next full reload overwrites local optimism with server truth
	_, err = b.Load(context.Background())
	require.NoError(t, err)
	o, err = b.Find("o1")
	require.NoError(t, err)
	assert.False(t, o.WeightsComplete)
}

func TestBook_StaleLoadDoesNotOverwriteNewerEdit(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	api := &stubAPI{}
	api.list = func(call int) ([]Order, error) {
		switch call {
		case 0:
			return []Order{mixedOrder()}, nil
		case 1:
			close(started)
			<-release
			return []Order{mixedOrder()}, nil
		default:
			return api.serverView(), nil
		}
	}
	b := NewBook(api, testLog())
	_, err := b.Load(context.Background())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = b.Load(context.Background())
	}()
	<-started

	_, err = b.RecordWeight(context.Background(), "i2", NewWeight(dec("1.5")))
	require.NoError(t, err)

	close(release)
	<-done

	o, err := b.Find("o1")
	require.NoError(t, err)
	assert.True(t, o.WeightsComplete)
	assert.True(t, o.Subtotal.Equal(dec("60")))
}

func TestBook_UpdateStatus(t *testing.T) {
	api := &stubAPI{}
	api.list = func(int) ([]Order, error) { return api.serverView(), nil }
	b := NewBook(api, testLog())
	_, err := b.Load(context.Background())
	require.NoError(t, err)

	o, err := b.UpdateStatus(context.Background(), "o1", OrderStatusPacked)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusPacked, o.Status)

	_, err = b.UpdateStatus(context.Background(), "o1", OrderStatus("lost"))
	assert.Error(t, err)

	_, err = b.Find("nope")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
