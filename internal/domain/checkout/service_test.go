package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/butcher-storefront/internal/domain/cart"
	"github.com/your-org/butcher-storefront/internal/domain/catalog"
	"github.com/your-org/butcher-storefront/internal/domain/delivery"
	"github.com/your-org/butcher-storefront/internal/domain/order"
	"github.com/your-org/butcher-storefront/internal/domain/stock"
	"github.com/your-org/butcher-storefront/internal/infrastructure/events"
	"github.com/your-org/butcher-storefront/internal/infrastructure/remote"
	"github.com/your-org/butcher-storefront/internal/infrastructure/storage"
	"github.com/your-org/butcher-storefront/internal/pkg/logger"
)

var testNow = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

type fakeAPI struct {
	windowOpen  bool
	placeErr    error
	stockErr    error
	placeCalls  int
	stockCalls  int
	placed      remote.PlaceOrderRequest
	trackResult *order.Order
}

func (f *fakeAPI) OrderWindow(context.Context) (*delivery.OrderWindow, error) {
	if !f.windowOpen {
		return &delivery.OrderWindow{}, nil
	}
	return &delivery.OrderWindow{Window: &delivery.Window{ID: "w", Active: true, Permanent: true}}, nil
}

func (f *fakeAPI) DropoffLocations(context.Context) ([]delivery.DropoffLocation, error) {
	past := testNow.Add(-time.Hour)
	return []delivery.DropoffLocation{
		{ID: "market", Name: "Market", Active: true},
		{ID: "closed", Name: "Closed", Active: true, CutoffAt: &past},
	}, nil
}

func (f *fakeAPI) PlaceOrder(_ context.Context, req remote.PlaceOrderRequest) (*order.Order, error) {
	f.placeCalls++
	f.placed = req
	if f.placeErr != nil {
		return nil, f.placeErr
	}
	return &order.Order{ID: "o1", OrderNumber: "A-1", Status: order.OrderStatusProcessing}, nil
}

func (f *fakeAPI) TrackOrder(_ context.Context, req remote.TrackOrderRequest) (*order.Order, error) {
	if f.trackResult == nil {
		return nil, &remote.Error{Status: 404, Message: "order not found"}
	}
	return f.trackResult, nil
}

func (f *fakeAPI) CheckStock(context.Context, []stock.Line) error {
	f.stockCalls++
	return f.stockErr
}

type harness struct {
	api     *fakeAPI
	svc     *Service
	cart    *cart.Store
	checker *stock.Checker
}

func newHarness(t *testing.T, api *fakeAPI) *harness {
	t.Helper()
	log := logrus.NewEntry(logger.Discard())
	store := cart.NewStore(context.Background(), storage.NewMemory(), log)
	checker := stock.NewChecker(api, stock.NewIssues(), time.Hour, log)
	t.Cleanup(checker.Close)

	svc := NewService(api, logger.Discard())
	svc.now = func() time.Time { return testNow }
	return &harness{api: api, svc: svc, cart: store, checker: checker}
}

func validForm() Form {
	return Form{CustomerName: "Ada", Phone: "555-0100", Email: "ada@example.com", DropoffLocationID: "market"}
}

func steak(stockQty int) catalog.Product {
	return catalog.Product{ID: "steak", Name: "Steak", Unit: catalog.UnitPound, Price: decimal.NewFromInt(20), Stock: &stockQty, Active: true}
}

func TestSubmit_ValidationNeverReachesNetwork(t *testing.T) {
	h := newHarness(t, &fakeAPI{windowOpen: true})
	require.NoError(t, h.cart.Add(context.Background(), steak(5), 1))

	_, err := h.svc.Submit(context.Background(), h.cart, h.checker, Form{CustomerName: "  ", Email: "nope"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "customer_name")
	assert.Contains(t, vErr.Fields, "phone")
	assert.Contains(t, vErr.Fields, "email")
	assert.Contains(t, vErr.Fields, "dropoff_location_id")
	assert.Zero(t, h.api.placeCalls)
	assert.Zero(t, h.api.stockCalls)
}

func TestSubmit_EmptyCart(t *testing.T) {
	h := newHarness(t, &fakeAPI{windowOpen: true})
	_, err := h.svc.Submit(context.Background(), h.cart, h.checker, validForm())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestSubmit_WindowClosed(t *testing.T) {
	h := newHarness(t, &fakeAPI{})
	require.NoError(t, h.cart.Add(context.Background(), steak(5), 1))

	_, err := h.svc.Submit(context.Background(), h.cart, h.checker, validForm())
	assert.ErrorIs(t, err, ErrOrderWindowClosed)
	assert.Zero(t, h.api.placeCalls)
}

func TestSubmit_LocationPastCutoff(t *testing.T) {
	h := newHarness(t, &fakeAPI{windowOpen: true})
	require.NoError(t, h.cart.Add(context.Background(), steak(5), 1))
	form := validForm()
	form.DropoffLocationID = "closed"

	_, err := h.svc.Submit(context.Background(), h.cart, h.checker, form)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "dropoff_location_id")
}

func TestSubmit_UnresolvedIssuesBlock(t *testing.T) {
	h := newHarness(t, &fakeAPI{windowOpen: true})
	require.NoError(t, h.cart.Add(context.Background(), steak(5), 3))
	h.checker.Apply([]stock.Issue{{ProductID: "steak", Requested: 3, Available: 2, Reason: stock.ReasonInsufficient}})

	_, err := h.svc.Submit(context.Background(), h.cart, h.checker, validForm())
	var conflict *stock.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Zero(t, h.api.stockCalls)
	assert.Zero(t, h.api.placeCalls)
}

func TestSubmit_FinalCheckConflict(t *testing.T) {
	api := &fakeAPI{windowOpen: true, stockErr: &stock.ConflictError{Issues: []stock.Issue{
		{ProductID: "steak", Requested: 1, Available: 0, Reason: stock.ReasonInactive},
	}}}
	h := newHarness(t, api)
	require.NoError(t, h.cart.Add(context.Background(), steak(5), 1))

	_, err := h.svc.Submit(context.Background(), h.cart, h.checker, validForm())
	var conflict *stock.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 1, h.checker.Issues().Len())
	assert.Zero(t, api.placeCalls)
}

func TestSubmit_ServerConflictPopulatesIssues(t *testing.T) {
	api := &fakeAPI{windowOpen: true, placeErr: &stock.ConflictError{Issues: []stock.Issue{
		{ProductID: "steak", Requested: 2, Available: 1, Reason: stock.ReasonInsufficient},
	}}}
	h := newHarness(t, api)
	require.NoError(t, h.cart.Add(context.Background(), steak(5), 2))

	_, err := h.svc.Submit(context.Background(), h.cart, h.checker, validForm())
	var conflict *stock.ConflictError
	require.ErrorAs(t, err, &conflict)
	issue, ok := h.checker.Issues().Get("steak")
	require.True(t, ok)
	assert.Equal(t, 1, issue.Available)
	assert.Len(t, h.cart.Lines(), 1)
}

func TestSubmit_SuccessClearsCartAndIssues(t *testing.T) {
	api := &fakeAPI{windowOpen: true}
	h := newHarness(t, api)
	require.NoError(t, h.cart.Add(context.Background(), steak(5), 2))

	placed, err := h.svc.Submit(context.Background(), h.cart, h.checker, validForm())
	require.NoError(t, err)
	assert.Equal(t, "A-1", placed.OrderNumber)
	assert.Empty(t, h.cart.Lines())
	assert.Zero(t, h.checker.Issues().Len())
	assert.Equal(t, []stock.Line{{ProductID: "steak", Qty: 2}}, api.placed.Items)
	assert.Equal(t, "Ada", api.placed.CustomerName)
}

type recordingPublisher struct {
	keys   []string
	events []events.Envelope
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, key string, e events.Envelope) error {
	r.keys = append(r.keys, key)
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingPublisher) Close() error { return nil }

func TestSubmit_PublishesOrderPlaced(t *testing.T) {
	api := &fakeAPI{windowOpen: true}
	h := newHarness(t, api)
	pub := &recordingPublisher{}
	h.svc.WithEvents(pub)
	require.NoError(t, h.cart.Add(context.Background(), steak(5), 3))

	_, err := h.svc.Submit(context.Background(), h.cart, h.checker, validForm())
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	assert.Equal(t, []string{"A-1"}, pub.keys)
	assert.Equal(t, events.TypeOrderPlaced, pub.events[0].Type)
	assert.Equal(t, testNow, pub.events[0].OccurredAt)
	assert.Equal(t, events.OrderPlaced{
		OrderID:           "o1",
		OrderNumber:       "A-1",
		DropoffLocationID: "market",
		Lines:             1,
		Units:             3,
	}, pub.events[0].Payload)
}

func TestSubmit_PublishFailureDoesNotFailOrder(t *testing.T) {
	api := &fakeAPI{windowOpen: true}
	h := newHarness(t, api)
	h.svc.WithEvents(&recordingPublisher{err: errors.New("broker down")})
	require.NoError(t, h.cart.Add(context.Background(), steak(5), 1))

	placed, err := h.svc.Submit(context.Background(), h.cart, h.checker, validForm())
	require.NoError(t, err)
	assert.Equal(t, "A-1", placed.OrderNumber)
	assert.Empty(t, h.cart.Lines())
}

func TestSubmit_NoEventOnConflict(t *testing.T) {
	api := &fakeAPI{windowOpen: true, placeErr: &stock.ConflictError{Issues: []stock.Issue{
		{ProductID: "steak", Requested: 2, Available: 1, Reason: stock.ReasonInsufficient},
	}}}
	h := newHarness(t, api)
	pub := &recordingPublisher{}
	h.svc.WithEvents(pub)
	require.NoError(t, h.cart.Add(context.Background(), steak(5), 2))

	_, err := h.svc.Submit(context.Background(), h.cart, h.checker, validForm())
	require.Error(t, err)
	assert.Empty(t, pub.events)
}

func TestSubmit_UpstreamFailureKeepsCart(t *testing.T) {
	api := &fakeAPI{windowOpen: true, placeErr: errors.New("connection reset")}
	h := newHarness(t, api)
	require.NoError(t, h.cart.Add(context.Background(), steak(5), 1))

	_, err := h.svc.Submit(context.Background(), h.cart, h.checker, validForm())
	assert.Error(t, err)
	assert.Len(t, h.cart.Lines(), 1)
}

func TestTrack(t *testing.T) {
	tracked := &order.Order{
		OrderNumber: "A-1",
		Status:      order.OrderStatusPacked,
		Items: []order.Item{
			{ID: "i1", Unit: catalog.UnitPound, Quantity: 1, UnitPrice: decimal.NewFromInt(20), Weight: order.NewWeight(decimal.RequireFromString("1.5"))},
		},
	}
	h := newHarness(t, &fakeAPI{trackResult: tracked})

	got, err := h.svc.Track(context.Background(), " A-1 ", "ada@example.com")
	require.NoError(t, err)
	assert.True(t, got.Order.WeightsComplete)
	assert.True(t, got.Order.Subtotal.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, 2, got.Progress.Step)

	_, err = h.svc.Track(context.Background(), "", "x")
	assert.ErrorIs(t, err, ErrTrackingRequired)
}
