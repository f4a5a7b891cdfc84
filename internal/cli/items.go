package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/andy/invoicer/internal/domain"
	"gopkg.in/yaml.v3"
)

// parseItemFlag parses "Service|qty|rate[|description]"
func parseItemFlag(s string) (domain.LineItemInput, error) {
	parts := strings.Split(s, "|")
	if len(parts) < 3 || len(parts) > 4 {
		return domain.LineItemInput{}, fmt.Errorf("item %q: expected Service|qty|rate[|description]", s)
	}

	qty, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return domain.LineItemInput{}, fmt.Errorf("item %q: invalid quantity: %w", s, err)
	}

	rate, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return domain.LineItemInput{}, fmt.Errorf("item %q: invalid rate: %w", s, err)
	}

	item := domain.LineItemInput{
		ServiceName: strings.TrimSpace(parts[0]),
		Quantity:    qty,
		Rate:        rate,
	}
	if len(parts) == 4 {
		item.ServiceDescription = strings.TrimSpace(parts[3])
	}
	return item, nil
}

// itemsFile is the YAML shape accepted by --items-file. A bare list works too.
type itemsFile struct {
	Items []domain.LineItemInput `yaml:"items"`
}

func parseItemsYAML(data []byte) ([]domain.LineItemInput, error) {
	var list []domain.LineItemInput
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var doc itemsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse items: %w", err)
	}
	return doc.Items, nil
}

// collectItems merges --items-file entries with repeated --item flags
func collectItems(flags []string, file string) ([]domain.LineItemInput, error) {
	var items []domain.LineItemInput

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		fromFile, err := parseItemsYAML(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		items = append(items, fromFile...)
	}

	for _, f := range flags {
		item, err := parseItemFlag(f)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

// itemInputs converts stored items back into inputs for a full replace
func itemInputs(items []*domain.LineItem) []domain.LineItemInput {
	inputs := make([]domain.LineItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, domain.LineItemInput{
			ServiceName:        item.ServiceName,
			ServiceDescription: item.ServiceDescription,
			Quantity:           item.Quantity,
			Rate:               item.Rate,
		})
	}
	return inputs
}

// parseDate accepts YYYY-MM-DD, "today" or "yesterday"
func parseDate(s string) (time.Time, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch s {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	default:
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, fmt.Errorf("expected format: YYYY-MM-DD, 'today', or 'yesterday'")
		}
		return t, nil
	}
}

// truncate shortens s to maxLen runes, ending in "..." when cut
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

func money(v float64) string {
	return "$" + domain.FormatMoney(v)
}
