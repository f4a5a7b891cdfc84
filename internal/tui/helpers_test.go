package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "$0.00"},
		{12.3, "$12.30"},
		{999.999, "$1,000.00"},
		{1234567.5, "$1,234,567.50"},
		{-42.1, "-$42.10"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatMoney(tt.amount))
	}
}

func TestTruncateStr(t *testing.T) {
	assert.Equal(t, "short", truncateStr("short", 10))
	assert.Equal(t, "hello...", truncateStr("hello world", 8))
	assert.Equal(t, "abc", truncateStr("abcdef", 3))
	assert.Equal(t, "Café Müller", truncateStr("Café Müller", 11))
	assert.Equal(t, "Café M...", truncateStr("Café Müller GmbH", 9))
	assert.Equal(t, "Zü", truncateStr("Zürich", 2))
}

func TestForm_NavigateAndSubmit(t *testing.T) {
	f := newForm([]formField{
		{label: "Name:", value: "Acme"},
		{label: "Email:"},
	})

	action, _ := f.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("!")})
	assert.Equal(t, formNone, action)
	assert.Equal(t, "Acme!", f.value(0))

	action, _ = f.update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, formNone, action)
	assert.Equal(t, 1, f.focus)

	f.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a@b.c")})
	assert.Equal(t, "a@b.c", f.value(1))

	action, _ = f.update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, formSubmit, action)

	f.update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 0, f.focus)

	action, _ = f.update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, formCancel, action)
}
