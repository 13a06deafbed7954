package history

import (
	"context"
	"testing"

	"github.com/atlastravel/atlas/internal/db"
	"github.com/atlastravel/atlas/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestSessionLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.CreateSession(ctx, "Kyoto trip")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("expected session id")
	}

	got, err := store.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Kyoto trip" {
		t.Errorf("expected title to persist, got %q", got.Title)
	}

	if _, err := store.GetSession(ctx, "missing"); err == nil {
		t.Error("expected error for unknown session")
	}
}

func TestAppendAndReadTranscript(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.CreateSession(ctx, "")
	if err != nil {
		t.Fatal(err)
	}

	msgs := []domain.Message{
		{Role: domain.RoleUser, Content: "Plan 5 days in Kyoto"},
		{Role: domain.RoleAssistant, ToolCalls: []domain.ToolCall{{
			ID: "call-1", Name: "get_weather",
			Arguments: map[string]any{"city": "Kyoto", "date": "2026-04-01"},
		}}},
		{Role: domain.RoleTool, ToolCallID: "call-1", Content: `{"conditions":"sunny"}`},
		{Role: domain.RoleAssistant, Content: "Here is your itinerary."},
	}
	for _, m := range msgs {
		if err := store.AppendMessage(ctx, sess.ID, m); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := store.Messages(ctx, sess.ID, 0)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(got))
	}
	if got[0].Role != domain.RoleUser {
		t.Errorf("expected append order preserved, first role %q", got[0].Role)
	}
	if len(got[1].ToolCalls) != 1 || got[1].ToolCalls[0].Name != "get_weather" {
		t.Error("tool calls did not round-trip")
	}
	if got[2].ToolCallID != "call-1" {
		t.Errorf("tool_call_id did not round-trip: %q", got[2].ToolCallID)
	}
}

func TestMessagesLimitKeepsMostRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.CreateSession(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 6; i++ {
		msg := domain.Message{Role: domain.RoleUser, Content: string(rune('a' + i))}
		if err := store.AppendMessage(ctx, sess.ID, msg); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.Messages(ctx, sess.ID, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].Content != "e" || got[1].Content != "f" {
		t.Errorf("expected last two messages, got %q %q", got[0].Content, got[1].Content)
	}
}

func TestListSessionsMostRecentFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.CreateSession(ctx, "first")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateSession(ctx, "second"); err != nil {
		t.Fatal(err)
	}

	// Touch the first session so it becomes most recent.
	if err := store.AppendMessage(ctx, first.ID, domain.Message{Role: domain.RoleUser, Content: "hi"}); err != nil {
		t.Fatal(err)
	}

	sessions, err := store.ListSessions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].Title != "first" {
		t.Errorf("expected most recently touched session first, got %q", sessions[0].Title)
	}
}
