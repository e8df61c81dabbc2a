package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/butcher-storefront/internal/domain/catalog"
)

func intPtr(v int) *int { return &v }

func TestRemainingStock(t *testing.T) {
	tests := []struct {
		name     string
		stock    *int
		cartQty  int
		expected *int
	}{
		{"unlimited", nil, 5, nil},
		{"some left", intPtr(3), 2, intPtr(1)},
		{"exactly used", intPtr(3), 3, intPtr(0)},
		{"cart above stock", intPtr(3), 7, intPtr(0)},
		{"empty cart", intPtr(4), 0, intPtr(4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RemainingStock(catalog.Product{ID: "a", Stock: tt.stock}, tt.cartQty)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.expected, *got)
			assert.GreaterOrEqual(t, *got, 0)
		})
	}
}

func TestIsSoldOut(t *testing.T) {
	assert.False(t, IsSoldOut(catalog.Product{}))
	assert.True(t, IsSoldOut(catalog.Product{Stock: intPtr(0)}))
	assert.True(t, IsSoldOut(catalog.Product{Stock: intPtr(-2)}))
	assert.False(t, IsSoldOut(catalog.Product{Stock: intPtr(1)}))
}

func TestClampQuantity(t *testing.T) {
	assert.Equal(t, 1, ClampQuantity(0, nil))
	assert.Equal(t, 9, ClampQuantity(9, nil))
	assert.Equal(t, 1, ClampQuantity(5, intPtr(1)))
	assert.Equal(t, 2, ClampQuantity(2, intPtr(4)))
	assert.Equal(t, 1, ClampQuantity(-4, intPtr(4)))

	for desired := -3; desired <= 10; desired++ {
		for rem := 1; rem <= 6; rem++ {
			got := ClampQuantity(desired, intPtr(rem))
			assert.GreaterOrEqual(t, got, 1)
			assert.LessOrEqual(t, got, rem)
		}
	}
}

func TestAvailabilityFor(t *testing.T) {
	p := catalog.Product{ID: "a", Stock: intPtr(3)}

	a := AvailabilityFor(p, 3)
	assert.False(t, a.CanAdd)
	assert.False(t, a.CanIncrement)
	assert.False(t, a.SoldOut)
	require.NotNil(t, a.MaxAddable)
	assert.Equal(t, 0, *a.MaxAddable)

	a = AvailabilityFor(p, 1)
	assert.True(t, a.CanAdd)
	assert.Equal(t, 2, *a.Remaining)

	soldOut := AvailabilityFor(catalog.Product{ID: "b", Stock: intPtr(0)}, 0)
	assert.True(t, soldOut.SoldOut)
	assert.False(t, soldOut.CanAdd)

	unlimited := AvailabilityFor(catalog.Product{ID: "c"}, 40)
	assert.True(t, unlimited.CanAdd)
	assert.Nil(t, unlimited.Remaining)
	assert.Nil(t, unlimited.MaxAddable)
}

func TestReclamp(t *testing.T) {
	products := catalog.Index([]catalog.Product{
		{ID: "a", Stock: intPtr(3)},
		{ID: "b"},
		{ID: "c", Stock: intPtr(2)},
	})
	staged := map[string]int{"a": 5, "b": 12, "c": 1, "gone": 2}

	got := Reclamp(staged, products, map[string]int{"a": 1, "c": 2})
	assert.Equal(t, map[string]int{"a": 2, "b": 12}, got)
}

// Cart has A (stock 3) at qty 2; adding 5 clamps to the single remaining unit.
func TestClampScenario_AddBeyondStock(t *testing.T) {
	a := catalog.Product{ID: "A", Stock: intPtr(3)}
	cartQty := 2

	remaining := RemainingStock(a, cartQty)
	require.NotNil(t, remaining)
	assert.Equal(t, 1, *remaining)

	added := ClampQuantity(5, remaining)
	assert.Equal(t, 3, cartQty+added)
}

func TestIssues_Unresolved(t *testing.T) {
	s := NewIssues()
	s.Replace([]Issue{
		{ProductID: "A", Requested: 2, Available: 1, Reason: ReasonInsufficient},
		{ProductID: "B", Requested: 1, Available: 0, Reason: ReasonInactive},
	})

	got := s.Unresolved([]Line{{ProductID: "A", Qty: 2}, {ProductID: "B", Qty: 1}})
	assert.Len(t, got, 2)

	got = s.Unresolved([]Line{{ProductID: "A", Qty: 1}, {ProductID: "B", Qty: 1}})
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].ProductID)

	assert.Empty(t, s.Unresolved([]Line{{ProductID: "A", Qty: 1}}))

	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "A", snap[0].ProductID)

	s.Clear()
	assert.Equal(t, 0, s.Len())
}

func TestConflictError_Message(t *testing.T) {
	err := &ConflictError{Issues: []Issue{{ProductID: "A"}, {ProductID: "B"}}}
	assert.Equal(t, "stock conflict for 2 product(s): A, B", err.Error())
}
