package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFit(t *testing.T) {
	assert.Equal(t, "ab   ", fit("ab", 5, false))
	assert.Equal(t, "   ab", fit("ab", 5, true))
	assert.Equal(t, "abcd…", fit("abcdefgh", 5, false))
	assert.Equal(t, "", fit("abc", 0, false))
	assert.Equal(t, 6, lipgloss.Width(fit("0x1234…5678", 6, false)))
}

func TestTableRender(t *testing.T) {
	tbl := NewTable([]Column{
		{Title: "#", Width: 3, AlignRight: true},
		{Title: "Recipient", Width: 14},
		{Title: "Amount", Width: 10, AlignRight: true},
	})
	tbl.AddRow(Row{"1", "0xabc", "1.5"})
	tbl.AddRow(Row{"2", "0xdef"})

	out := tbl.Render()
	assert.Contains(t, out, "Recipient")
	assert.Contains(t, out, "----------")
	assert.Contains(t, out, "0xabc")
	assert.Contains(t, out, "1.5")

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Less(t, strings.Index(out, "0xabc"), strings.Index(out, "0xdef"))
}

func TestTableMark(t *testing.T) {
	tbl := NewTable([]Column{{Title: "A", Width: 5}})
	tbl.AddRow(Row{"x"})
	tbl.AddRow(Row{"y"})
	tbl.Mark(1)
	assert.True(t, tbl.Marked[1])
	assert.False(t, tbl.Marked[0])
	assert.Contains(t, tbl.Render(), "y")
}

func TestKeyValueBlock(t *testing.T) {
	out := KeyValueBlock("Airdrop", [][2]string{
		{"Token", "USDC"},
		{"Total", "3.5"},
	})
	assert.Contains(t, out, "Airdrop")
	assert.Contains(t, out, "USDC")
	assert.Contains(t, out, "╭")
	assert.Contains(t, out, "╰")
	assert.Less(t, strings.Index(out, "Token"), strings.Index(out, "Total"))
}
