package llm

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSystemPrompt(t *testing.T) {
	dir := t.TempDir()
	custom := filepath.Join(dir, "prompt.txt")
	if err := os.WriteFile(custom, []byte("  custom prompt\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	empty := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(empty, []byte("\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		persona    string
		file       string
		wantPrefix string
		wantErr    bool
	}{
		{name: "mindmate persona", persona: "mindmate", wantPrefix: "Role:\nYou are MindMate"},
		{name: "persona is case insensitive", persona: "Assistant", wantPrefix: "You are a friendly"},
		{name: "file overrides persona", persona: "mindmate", file: custom, wantPrefix: "custom prompt"},
		{name: "unknown persona", persona: "pirate", wantErr: true},
		{name: "missing file", persona: "mindmate", file: filepath.Join(dir, "nope.txt"), wantErr: true},
		{name: "empty file", persona: "mindmate", file: empty, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SystemPrompt(tt.persona, tt.file)
			if tt.wantErr {
				if err == nil {
					t.Errorf("SystemPrompt() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("SystemPrompt() unexpected error: %v", err)
			}
			if !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("SystemPrompt() = %q, want prefix %q", got, tt.wantPrefix)
			}
		})
	}
}

func TestPersonas(t *testing.T) {
	got := Personas()
	if len(got) != 2 || got[0] != PersonaAssistant || got[1] != PersonaMindMate {
		t.Errorf("Personas() = %v", got)
	}
}

func TestUnavailable(t *testing.T) {
	u := Unavailable{Reason: errors.New("missing key")}

	if _, err := u.Chat(context.Background(), "hi"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Chat() error = %v, want ErrNotConfigured", err)
	}

	called := false
	err := u.StreamChat(context.Background(), "hi", func(string) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("StreamChat() error = %v, want ErrNotConfigured", err)
	}
	if called {
		t.Error("StreamChat() should not invoke the callback")
	}

	if _, err := (Unavailable{}).Chat(context.Background(), "hi"); err != ErrNotConfigured {
		t.Errorf("Chat() without reason = %v, want ErrNotConfigured", err)
	}
}
