package ui

import (
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/tsend/internal/amount"
	"github.com/Mohsinsiddi/tsend/internal/config"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	fieldToken = iota
	fieldRecipients
	fieldAmounts
	fieldCount
)

// FormModel edits the three airdrop fields. Every edit that changes a field
// is written to the store immediately, so quitting at any point keeps what
// was typed.
type FormModel struct {
	kv       config.KV
	saved    config.Form
	decimals uint8

	token      textinput.Model
	recipients textarea.Model
	amounts    textarea.Model
	focus      int

	err       error
	submitted bool
	quitting  bool
}

// NewFormModel loads the saved form from kv. Totals in the summary line are
// computed at the given token decimals.
func NewFormModel(kv config.KV, decimals uint8) (FormModel, error) {
	saved, err := config.LoadForm(kv)
	if err != nil {
		return FormModel{}, err
	}

	token := textinput.New()
	token.Placeholder = "0x… token address"
	token.CharLimit = 42
	token.Width = 44
	token.SetValue(saved.TokenAddress)

	recipients := newArea("one address per line, or comma separated")
	recipients.SetValue(saved.Recipients)
	amounts := newArea("amounts in token units, same order")
	amounts.SetValue(saved.Amounts)

	m := FormModel{
		kv:         kv,
		saved:      saved,
		decimals:   decimals,
		token:      token,
		recipients: recipients,
		amounts:    amounts,
	}
	m.token.Focus()
	return m, nil
}

func newArea(placeholder string) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.SetWidth(60)
	ta.SetHeight(6)
	return ta
}

// Form is the current content of the three fields.
func (m FormModel) Form() config.Form {
	return config.Form{
		TokenAddress: strings.TrimSpace(m.token.Value()),
		Recipients:   m.recipients.Value(),
		Amounts:      m.amounts.Value(),
	}
}

// Submitted reports whether the user finished with ctrl+s.
func (m FormModel) Submitted() bool { return m.submitted }

// Err is the last store error, if any.
func (m FormModel) Err() error { return m.err }

func (m FormModel) Init() tea.Cmd { return textinput.Blink }

func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "ctrl+s":
			m.submitted = true
			return m, tea.Quit
		case "tab":
			return m.setFocus((m.focus + 1) % fieldCount)
		case "shift+tab":
			return m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		case "ctrl+x":
			if err := config.ClearForm(m.kv); err != nil {
				m.err = err
				return m, nil
			}
			m.token.SetValue("")
			m.recipients.SetValue("")
			m.amounts.SetValue("")
			m.saved = config.Form{}
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldToken:
		m.token, cmd = m.token.Update(msg)
	case fieldRecipients:
		m.recipients, cmd = m.recipients.Update(msg)
	case fieldAmounts:
		m.amounts, cmd = m.amounts.Update(msg)
	}
	m.persist()
	return m, cmd
}

func (m *FormModel) persist() {
	next := m.Form()
	if next == m.saved {
		return
	}
	if err := config.SaveFormChanges(m.kv, m.saved, next); err != nil {
		m.err = err
		return
	}
	m.saved = next
	m.err = nil
}

func (m FormModel) setFocus(i int) (tea.Model, tea.Cmd) {
	m.token.Blur()
	m.recipients.Blur()
	m.amounts.Blur()
	m.focus = i

	var cmd tea.Cmd
	switch i {
	case fieldToken:
		cmd = m.token.Focus()
	case fieldRecipients:
		cmd = m.recipients.Focus()
	case fieldAmounts:
		cmd = m.amounts.Focus()
	}
	return m, cmd
}

// Summary is the live status line under the fields.
func (m FormModel) Summary() string {
	nRecipients := len(amount.SplitList(m.recipients.Value()))
	values, rejected := amount.Scan(m.amounts.Value(), m.decimals)
	nAmounts := len(values) + len(rejected)

	parts := []string{
		fmt.Sprintf("%d recipients", nRecipients),
		fmt.Sprintf("%d amounts", nAmounts),
		"total " + amount.FormatUnits(amount.Sum(values), m.decimals),
	}
	line := Meta(strings.Join(parts, " · "))
	switch {
	case len(rejected) > 0:
		line += "  " + Err(fmt.Sprintf("%d invalid amount(s), first: %s", len(rejected), rejected[0].Error()))
	case nRecipients != nAmounts:
		line += "  " + Warn("counts differ")
	}
	return line
}

func (m FormModel) View() string {
	if m.quitting || m.submitted {
		return ""
	}

	box := func(i int, label, body string) string {
		style := StyleBorder
		if i == m.focus {
			style = StyleFocused
		}
		return StyleMeta.Render(label) + "\n" + style.Render(body)
	}

	var sb strings.Builder
	sb.WriteString(Banner() + "\n\n")
	sb.WriteString(box(fieldToken, "Token address", m.token.View()) + "\n")
	sb.WriteString(box(fieldRecipients, "Recipients", m.recipients.View()) + "\n")
	sb.WriteString(box(fieldAmounts, "Amounts", m.amounts.View()) + "\n\n")
	sb.WriteString(m.Summary() + "\n")
	if m.err != nil {
		sb.WriteString(Err("saving form: "+m.err.Error()) + "\n")
	}
	sb.WriteString("\n" + Meta("[ tab ] next field   [ ctrl+s ] done   [ ctrl+x ] clear   [ esc ] quit (edits are kept)") + "\n")
	return sb.String()
}

// RunForm opens the editor on the saved form and returns its final content
// and whether the user submitted it.
func RunForm(kv config.KV, decimals uint8) (config.Form, bool, error) {
	m, err := NewFormModel(kv, decimals)
	if err != nil {
		return config.Form{}, false, err
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return config.Form{}, false, fmt.Errorf("form: %w", err)
	}
	fm := final.(FormModel)
	return fm.Form(), fm.Submitted(), fm.Err()
}
