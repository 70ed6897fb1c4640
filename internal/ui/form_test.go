package ui

import (
	"testing"

	"github.com/Mohsinsiddi/tsend/internal/config"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feed(t *testing.T, m FormModel, msgs ...tea.Msg) FormModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(FormModel)
	}
	return m
}

func TestFormLoadsSavedValues(t *testing.T) {
	kv := config.NewMemKV()
	require.NoError(t, kv.Set(config.KeyTokenAddress, "0xabc"))
	require.NoError(t, kv.Set(config.KeyAmounts, "1\n2"))

	m, err := NewFormModel(kv, 18)
	require.NoError(t, err)
	assert.Equal(t, config.Form{TokenAddress: "0xabc", Amounts: "1\n2"}, m.Form())
}

func TestFormSavesOnChange(t *testing.T) {
	kv := config.NewMemKV()
	m, err := NewFormModel(kv, 18)
	require.NoError(t, err)

	m = feed(t, m, runes("0x12"))
	v, ok, err := kv.Get(config.KeyTokenAddress)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "0x12", v)
	_, ok, _ = kv.Get(config.KeyRecipients)
	assert.False(t, ok, "untouched fields are not written")

	m = feed(t, m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab}, runes("5"))
	v, _, _ = kv.Get(config.KeyAmounts)
	assert.Equal(t, "5", v)
	assert.Equal(t, "0x12", m.Form().TokenAddress)
}

func TestFormNonEditingKeysDoNotWrite(t *testing.T) {
	kv := config.NewMemKV()
	m, err := NewFormModel(kv, 18)
	require.NoError(t, err)

	feed(t, m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Zero(t, kv.Writes)
}

func TestFormClear(t *testing.T) {
	kv := config.NewMemKV()
	require.NoError(t, kv.Set(config.KeyRecipients, "0xdef"))
	m, err := NewFormModel(kv, 18)
	require.NoError(t, err)

	m = feed(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.Equal(t, config.Form{}, m.Form())
	_, ok, _ := kv.Get(config.KeyRecipients)
	assert.False(t, ok)
}

func TestFormSubmitAndQuit(t *testing.T) {
	m, err := NewFormModel(config.NewMemKV(), 18)
	require.NoError(t, err)

	done := feed(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.True(t, done.Submitted())

	quit := feed(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, quit.Submitted())
	assert.Empty(t, quit.View())
}

func TestFormSummary(t *testing.T) {
	kv := config.NewMemKV()
	require.NoError(t, kv.Set(config.KeyRecipients, "0xa,0xb"))
	require.NoError(t, kv.Set(config.KeyAmounts, "1.5,2"))
	m, err := NewFormModel(kv, 18)
	require.NoError(t, err)

	s := m.Summary()
	assert.Contains(t, s, "2 recipients")
	assert.Contains(t, s, "2 amounts")
	assert.Contains(t, s, "total 3.5")
	assert.NotContains(t, s, "counts differ")

	require.NoError(t, kv.Set(config.KeyAmounts, "1,x,2"))
	m, err = NewFormModel(kv, 18)
	require.NoError(t, err)
	assert.Contains(t, m.Summary(), "invalid amount")
}
