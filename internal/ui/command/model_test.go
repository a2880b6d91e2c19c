package command

import (
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestSuggestions(t *testing.T) {
	tests := []struct {
		typed string
		want  []string
	}{
		{"", Commands},
		{"ma", []string{"mark all read"}},
		{"c", []string{"contact", "create admin"}},
		{"admin", []string{"create admin"}}, // substring fallback
		{"READ", []string{"mark all read"}}, // case-insensitive
		{"zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.typed, func(t *testing.T) {
			got := suggestions(tt.typed)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("suggestions(%q) = %v, want %v", tt.typed, got, tt.want)
			}
		})
	}
}

func TestTabCompletesFirstSuggestion(t *testing.T) {
	m := New(80, 24)
	m.input.SetValue("ma")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})

	if got := m.input.Value(); got != "mark all read" {
		t.Errorf("input after tab = %q, want %q", got, "mark all read")
	}
}

func TestEnterEmitsTrimmedCommand(t *testing.T) {
	m := New(80, 24)
	m.input.SetValue("  logout  ")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter with input produced no command")
	}
	msg, ok := cmd().(CommandMsg)
	if !ok {
		t.Fatalf("message = %T, want CommandMsg", cmd())
	}
	if string(msg) != "logout" {
		t.Errorf("command = %q, want %q", msg, "logout")
	}
	if m.input.Value() != "" {
		t.Errorf("input not reset after enter: %q", m.input.Value())
	}
}

func TestEnterOnEmptyInputIsNoOp(t *testing.T) {
	m := New(80, 24)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("enter on empty input produced a command")
	}
}
