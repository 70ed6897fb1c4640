package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrompterConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"  yes  \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"yep\n", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		p := &Prompter{In: strings.NewReader(tt.input), Out: &out}
		assert.Equal(t, tt.want, p.Confirm("Send?"), "input %q", tt.input)
		assert.Contains(t, out.String(), "Send?")
		assert.Contains(t, out.String(), "[y/N]")
	}
}

func TestPrompterConfirmDanger(t *testing.T) {
	var out bytes.Buffer
	p := &Prompter{In: strings.NewReader("y\n"), Out: &out}
	assert.True(t, p.ConfirmDanger("Remove wallet?"))
	assert.Contains(t, out.String(), "⚠")
}
