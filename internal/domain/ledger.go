package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// LineItemInput is a line item as submitted by the caller, before amounts
// are computed.
type LineItemInput struct {
	ServiceName        string  `yaml:"service"`
	ServiceDescription string  `yaml:"description"`
	Quantity           int     `yaml:"quantity"`
	Rate               float64 `yaml:"rate"`
}

// BuildLineItems validates a batch and returns items with amounts and sort
// order set. Amounts keep full precision; rounding happens at display time.
func BuildLineItems(inputs []LineItemInput) ([]*LineItem, error) {
	if len(inputs) == 0 {
		return nil, NewValidationError("line_items", "at least one line item is required")
	}

	items := make([]*LineItem, 0, len(inputs))
	for i, in := range inputs {
		name := strings.TrimSpace(in.ServiceName)
		if name == "" {
			return nil, NewValidationError(itemField(i, "service_name"), "service name is required")
		}
		if in.Quantity < 1 {
			return nil, NewValidationError(itemField(i, "quantity"), "quantity must be at least 1")
		}
		if in.Rate < 0 || math.IsNaN(in.Rate) || math.IsInf(in.Rate, 0) {
			return nil, NewValidationError(itemField(i, "rate"), "rate must be a non-negative number")
		}

		items = append(items, &LineItem{
			ServiceName:        name,
			ServiceDescription: strings.TrimSpace(in.ServiceDescription),
			Quantity:           in.Quantity,
			Rate:               in.Rate,
			Amount:             float64(in.Quantity) * in.Rate,
			SortOrder:          i,
		})
	}

	return items, nil
}

// SumAmounts returns the sum of the item amounts.
func SumAmounts(items []*LineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Amount
	}
	return total
}

// SummaryServices is how many service names list views show before "...".
const SummaryServices = 3

// ServiceNames joins up to max service names for list views.
func ServiceNames(names []string, max int) string {
	if max > 0 && len(names) > max {
		names = append(names[:max:max], "...")
	}
	return strings.Join(names, ", ")
}

// FormatMoney renders an amount with exactly two decimals, e.g. "29.97".
func FormatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func itemField(i int, name string) string {
	return fmt.Sprintf("line_items[%d].%s", i, name)
}
