package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leofalp/llmwire/core/client"
	"github.com/leofalp/llmwire/core/conversation"
	"github.com/leofalp/llmwire/internal/mockserver"
	"github.com/leofalp/llmwire/providers/ai"
)

func newEnvironment(t *testing.T, provider ai.ProviderType, profile Profile) (*environment, *bytes.Buffer) {
	t.Helper()
	server := httptest.NewServer(mockserver.New("").Handler())
	t.Cleanup(server.Close)

	c, err := client.New(provider, client.WithAPIKey("ok"), client.WithBaseURL(server.URL+"/v1"))
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}

	profile.Provider = string(provider)
	stdout := &bytes.Buffer{}
	return &environment{
		profile: profile,
		flags:   &flags{},
		client:  c,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		stdin:   strings.NewReader(""),
		stdout:  stdout,
	}, stdout
}

func TestRunComplete(t *testing.T) {
	for _, provider := range []ai.ProviderType{ai.ProviderOpenAI, ai.ProviderGemini, ai.ProviderAnthropic} {
		t.Run(string(provider), func(t *testing.T) {
			env, stdout := newEnvironment(t, provider, Profile{Model: "mock-model"})

			if err := runComplete(context.Background(), env, []string{"Say", "hello"}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := stdout.String(); got != mockserver.MockReply+"\n" {
				t.Errorf("got %q, want %q", got, mockserver.MockReply+"\n")
			}
		})
	}
}

func TestRunStream(t *testing.T) {
	env, stdout := newEnvironment(t, ai.ProviderOpenAI, Profile{Model: "mock-model"})

	if err := runStream(context.Background(), env, []string{"hi"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := stdout.String(); got != mockserver.MockReply+"\n" {
		t.Errorf("got %q, want %q", got, mockserver.MockReply+"\n")
	}
}

func TestRunStream_Events(t *testing.T) {
	env, stdout := newEnvironment(t, ai.ProviderAnthropic, Profile{Model: "mock-model"})
	env.flags.events = true

	if err := runStream(context.Background(), env, []string{"hi"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := stdout.String()
	if !strings.HasPrefix(out, "event: message_start\n") || !strings.Contains(out, "event: message_stop\n") {
		t.Errorf("got %q", out)
	}
}

func TestRunComplete_History(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.json")
	env, _ := newEnvironment(t, ai.ProviderOpenAI, Profile{Model: "mock-model", History: path})

	for _, prompt := range []string{"first", "second"} {
		if err := runComplete(context.Background(), env, []string{prompt}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	messages, err := conversation.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(messages) != 4 {
		t.Fatalf("got %d messages, want 4", len(messages))
	}
	wantRoles := []ai.Role{ai.RoleUser, ai.RoleAssistant, ai.RoleUser, ai.RoleAssistant}
	for i, want := range wantRoles {
		if messages[i].Role != want {
			t.Errorf("message %d: got role %q, want %q", i, messages[i].Role, want)
		}
	}
	if text, _ := messages[2].SingleText(); text != "second" {
		t.Errorf("got %q, want second", text)
	}
}

func TestRunComplete_StdinPrompt(t *testing.T) {
	env, stdout := newEnvironment(t, ai.ProviderGemini, Profile{Model: "mock-model"})
	env.stdin = strings.NewReader("  from stdin \n")

	if err := runComplete(context.Background(), env, []string{"-"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout.Len() == 0 {
		t.Error("expected output")
	}
}

func TestRunComplete_EmptyPrompt(t *testing.T) {
	env, _ := newEnvironment(t, ai.ProviderOpenAI, Profile{Model: "mock-model"})

	err := runComplete(context.Background(), env, nil)
	if err == nil || err.Error() != "a prompt is required" {
		t.Errorf("got %v", err)
	}
}

func TestRunModels(t *testing.T) {
	env, stdout := newEnvironment(t, ai.ProviderGemini, Profile{})

	if err := runModels(context.Background(), env, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := stdout.String()
	for _, want := range []string{"ID", "gemini-2.0-flash", "Gemini 1.5 Pro", "1048576"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}

func TestRunTokens(t *testing.T) {
	env, stdout := newEnvironment(t, ai.ProviderAnthropic, Profile{Model: "mock-model"})

	if err := runTokens(context.Background(), env, []string{"count", "these"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(stdout.String()) == "0" || stdout.Len() == 0 {
		t.Errorf("got %q, want a positive count", stdout.String())
	}
}

func TestRunUpload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("some notes"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	env, stdout := newEnvironment(t, ai.ProviderOpenAI, Profile{})

	if err := runUpload(context.Background(), env, []string{path}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := stdout.String()
	if !strings.Contains(out, "id:") || !strings.Contains(out, "file-") || !strings.Contains(out, "text/plain") {
		t.Errorf("got %q", out)
	}

	if err := runUpload(context.Background(), env, nil); err == nil {
		t.Error("expected an error without a path")
	}
}

func TestRunUnknownCommand(t *testing.T) {
	err := run([]string{"chat"})
	if err == nil || err.Error() != `unknown command "chat"` {
		t.Errorf("got %v", err)
	}
}
