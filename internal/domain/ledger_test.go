package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLineItems_ComputesAmountsAndOrder(t *testing.T) {
	items, err := BuildLineItems([]LineItemInput{
		{ServiceName: "A", Quantity: 2, Rate: 10},
		{ServiceName: " B ", ServiceDescription: "second", Quantity: 1, Rate: 5},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "A", items[0].ServiceName)
	assert.Equal(t, 20.0, items[0].Amount)
	assert.Equal(t, 0, items[0].SortOrder)

	assert.Equal(t, "B", items[1].ServiceName)
	assert.Equal(t, "second", items[1].ServiceDescription)
	assert.Equal(t, 5.0, items[1].Amount)
	assert.Equal(t, 1, items[1].SortOrder)

	assert.Equal(t, 25.0, SumAmounts(items))
}

func TestBuildLineItems_ZeroRateAllowed(t *testing.T) {
	items, err := BuildLineItems([]LineItemInput{{ServiceName: "Pro bono", Quantity: 3, Rate: 0}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, items[0].Amount)
}

func TestBuildLineItems_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input []LineItemInput
		field string
	}{
		{"empty batch", nil, "line_items"},
		{"blank name", []LineItemInput{{ServiceName: "  ", Quantity: 1, Rate: 1}}, "line_items[0].service_name"},
		{"zero quantity", []LineItemInput{{ServiceName: "A", Quantity: 1, Rate: 1}, {ServiceName: "B", Quantity: 0, Rate: 1}}, "line_items[1].quantity"},
		{"negative rate", []LineItemInput{{ServiceName: "A", Quantity: 1, Rate: -0.01}}, "line_items[0].rate"},
		{"nan rate", []LineItemInput{{ServiceName: "A", Quantity: 1, Rate: math.NaN()}}, "line_items[0].rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildLineItems(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestFormatMoney(t *testing.T) {
	items, err := BuildLineItems([]LineItemInput{{ServiceName: "Consulting", Quantity: 3, Rate: 9.99}})
	require.NoError(t, err)

	total := SumAmounts(items)
	assert.InDelta(t, 29.97, total, 1e-9)
	assert.Equal(t, "29.97", FormatMoney(total))
	assert.Equal(t, "25.00", FormatMoney(25))
	assert.Equal(t, "0.00", FormatMoney(0))
	assert.Equal(t, "10.13", FormatMoney(10.125))
}

func TestServiceNames(t *testing.T) {
	names := []string{"A", "B", "C", "D"}
	assert.Equal(t, "A, B, C, ...", ServiceNames(names, 3))
	assert.Equal(t, "A, B, C, D", ServiceNames(names, 0))
	assert.Equal(t, "A, B, C", ServiceNames(names[:3], 3))
	assert.Equal(t, []string{"A", "B", "C", "D"}, names)
	assert.Empty(t, ServiceNames(nil, 3))
}

func TestInvoiceCanEdit(t *testing.T) {
	inv := &Invoice{Status: InvoiceStatusPending}
	assert.True(t, inv.CanEdit())

	inv.Status = InvoiceStatusPaid
	assert.False(t, inv.CanEdit())
	assert.True(t, inv.IsPaid())
}

func TestInvalidStateError(t *testing.T) {
	err := &InvalidStateError{Entity: "invoice", Key: "INV-0001", Status: "paid", Op: "update"}
	assert.True(t, IsInvalidState(err))
	assert.Equal(t, "cannot update invoice INV-0001: status is paid", err.Error())
}

func TestStoreErrorUnwrap(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := NewStoreError("insert invoice", cause)
	assert.True(t, errors.Is(err, ErrStore))
	assert.True(t, errors.Is(err, cause))
	assert.Nil(t, NewStoreError("noop", nil))
}
