package order

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/butcher-storefront/internal/domain/catalog"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func mixedOrder() Order {
	return Order{
		ID:     "o1",
		Status: OrderStatusProcessing,
		Items: []Item{
			{ID: "i1", Name: "Sausage pack", Unit: catalog.UnitPack, Quantity: 3, UnitPrice: dec("10")},
			{ID: "i2", Name: "Ribeye", Unit: catalog.UnitPound, Quantity: 1, UnitPrice: dec("20")},
		},
	}
}

func TestReconcile_PackOnlyOrder(t *testing.T) {
	o := Order{Items: []Item{
		{Unit: catalog.UnitPack, Quantity: 3, UnitPrice: dec("10")},
		{Unit: catalog.UnitPack, Quantity: 2, UnitPrice: dec("4.75")},
	}}
	Reconcile(&o)

	assert.True(t, o.WeightsComplete)
	assert.True(t, o.Subtotal.Equal(dec("39.5")))
	total, final := FinalTotal(&o)
	assert.True(t, final)
	assert.True(t, total.Equal(dec("39.5")))
}

func TestReconcile_MissingWeightIsNotReady(t *testing.T) {
	o := mixedOrder()
	Reconcile(&o)

	assert.False(t, o.WeightsComplete)
	assert.True(t, o.Items[0].Ready)
	assert.True(t, o.Items[0].LineTotal.Equal(dec("30")))
	assert.False(t, o.Items[1].Ready)
	assert.True(t, o.Items[1].LineTotal.IsZero())

	total, final := FinalTotal(&o)
	assert.False(t, final)
	assert.True(t, total.IsZero())
}

func TestReconcile_RecordedWeightCompletesOrder(t *testing.T) {
	o := mixedOrder()
	o.Items[1].Weight = NewWeight(dec("1.5"))
	Reconcile(&o)

	assert.True(t, o.WeightsComplete)
	assert.True(t, o.Items[1].LineTotal.Equal(dec("30")))
	total, final := FinalTotal(&o)
	assert.True(t, final)
	assert.True(t, total.Equal(dec("60")))
}

func TestWeightsComplete_VacuousWithoutWeightItems(t *testing.T) {
	assert.True(t, WeightsComplete(nil))
	assert.True(t, WeightsComplete([]Item{{Unit: catalog.UnitPack}}))
	assert.False(t, WeightsComplete([]Item{{Unit: catalog.UnitKilo}}))
}

func TestWeight_JSON(t *testing.T) {
	tests := []struct {
		raw   string
		valid bool
		value string
	}{
		{`null`, false, ""},
		{`""`, false, ""},
		{`"   "`, false, ""},
		{`1.25`, true, "1.25"},
		{`"2.5"`, true, "2.5"},
	}
	for _, tt := range tests {
		var item Item
		require.NoError(t, json.Unmarshal([]byte(`{"unit":"lb","weight":`+tt.raw+`}`), &item), tt.raw)
		assert.Equal(t, tt.valid, item.Weight.Valid, tt.raw)
		if tt.valid {
			assert.True(t, item.Weight.Value.Equal(dec(tt.value)), tt.raw)
		}
	}

	var w Weight
	assert.Error(t, json.Unmarshal([]byte(`"heavy"`), &w))

	out, err := json.Marshal(Item{Weight: NewWeight(dec("1.5"))})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"weight":"1.5"`)

	out, err = json.Marshal(Item{})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"weight":null`)
}

func TestOrderStatus_Ordering(t *testing.T) {
	assert.Equal(t, 0, OrderStatusProcessing.Index())
	assert.Equal(t, 3, OrderStatusDelivered.Index())
	assert.Equal(t, -1, OrderStatus("cancelled").Index())

	next, ok := OrderStatusPacked.Next()
	assert.True(t, ok)
	assert.Equal(t, OrderStatusShipping, next)
	_, ok = OrderStatusDelivered.Next()
	assert.False(t, ok)

	s, err := ParseStatus(" Shipping ")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusShipping, s)
	_, err = ParseStatus("lost")
	assert.Error(t, err)

	o := Order{Status: OrderStatusPacked}
	p := o.GetProgress()
	assert.Equal(t, 2, p.Step)
	assert.False(t, p.Complete)
}

func TestOrder_CustomerKey(t *testing.T) {
	assert.Equal(t, "a@b.co", (&Order{Email: " A@B.co ", Phone: "1"}).CustomerKey())
	assert.Equal(t, "555", (&Order{Phone: "555", CustomerName: "X"}).CustomerKey())
	assert.Equal(t, "jo", (&Order{CustomerName: "Jo"}).CustomerKey())
}
