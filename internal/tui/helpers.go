package tui

import (
	"strings"

	"github.com/andy/invoicer/internal/domain"
)

// formatMoney formats money as "$X,XXX.XX" with comma separators
func formatMoney(amount float64) string {
	s := domain.FormatMoney(amount)

	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	dotPos := len(s) - 3
	intPart := s[:dotPos]
	decPart := s[dotPos:]

	result := make([]byte, 0, len(intPart)+len(intPart)/3)
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}

	prefix := "$"
	if negative {
		prefix = "-$"
	}
	return prefix + string(result) + decPart
}

// truncateStr truncates a string to maxLen runes with ellipsis
func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

func renderStatus(status domain.InvoiceStatus) string {
	if status == domain.InvoiceStatusPaid {
		return paidStyle.Render("paid")
	}
	return pendingStyle.Render("pending")
}
