// ABOUTME: Tests for console rendering and numeric option picking
// ABOUTME: The readline loop itself is not driven; rendering is a pure function

package frontend

import (
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/convbot/convbot/internal/conversation"
)

func TestRenderReply(t *testing.T) {
	// Keep ANSI escapes out of the assertions.
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()

	t.Run("text with options", func(t *testing.T) {
		out := renderReply(conversation.Reply{
			Text:    "Choose a category:",
			Options: []string{"Length", "Mass"},
		})
		if !strings.Contains(out, "Choose a category:") {
			t.Errorf("missing text in %q", out)
		}
		if !strings.Contains(out, "1. Length") || !strings.Contains(out, "2. Mass") {
			t.Errorf("missing numbered options in %q", out)
		}
	})

	t.Run("end session marker", func(t *testing.T) {
		out := renderReply(conversation.Reply{Text: "Done!", EndSession: true})
		if !strings.Contains(out, "session ended") {
			t.Errorf("missing end marker in %q", out)
		}
	})
}

func TestPickOption(t *testing.T) {
	c := &Console{lastOptions: []string{"Length", "Mass", "Time"}}

	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"1", "Length", true},
		{"3", "Time", true},
		{"0", "", false},
		{"4", "", false},
		{"-1", "", false},
		{"Length", "", false},
	}

	for _, tt := range tests {
		got, ok := c.pickOption(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("pickOption(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}
