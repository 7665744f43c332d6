package memory

import (
	"context"
	"errors"
	"iter"
	"strings"
	"testing"
	"time"

	adkmemory "google.golang.org/adk/memory"
	"google.golang.org/adk/model"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

// mockStore is a mock implementation of Store for testing
type mockStore struct {
	rules          []string
	savedExchanges []savedExchange
	searchResults  []Exchange
	searchedConv   string
	searchError    error
	saveError      error
}

type savedExchange struct {
	conversationID, prompt, reply string
	vector                        []float32
}

func (m *mockStore) InitSchema(ctx context.Context) error { return nil }

func (m *mockStore) GetRules(ctx context.Context) ([]string, error) {
	return m.rules, nil
}

func (m *mockStore) AddRule(ctx context.Context, category, content string, priority int) error {
	m.rules = append(m.rules, content)
	return nil
}

func (m *mockStore) SaveExchange(ctx context.Context, conversationID, prompt, reply string, vector []float32) error {
	if m.saveError != nil {
		return m.saveError
	}
	m.savedExchanges = append(m.savedExchanges, savedExchange{conversationID, prompt, reply, vector})
	return nil
}

func (m *mockStore) SearchSimilar(ctx context.Context, conversationID string, queryVector []float32, limit int) ([]Exchange, error) {
	m.searchedConv = conversationID
	if m.searchError != nil {
		return nil, m.searchError
	}
	return m.searchResults, nil
}

func (m *mockStore) Close() error { return nil }

// mockEmbedder is a mock implementation of Embedder for testing
type mockEmbedder struct {
	embedError error
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.embedError != nil {
		return nil, m.embedError
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

// mockSession is a mock implementation of session.Session for testing
type mockSession struct {
	userID string
	events []*session.Event
}

func (m *mockSession) ID() string                { return "test-session" }
func (m *mockSession) AppName() string           { return "test-app" }
func (m *mockSession) UserID() string            { return m.userID }
func (m *mockSession) State() session.State      { return &mockState{} }
func (m *mockSession) Events() session.Events    { return &mockEvents{events: m.events} }
func (m *mockSession) LastUpdateTime() time.Time { return time.Time{} }

// mockState is a simple implementation of session.State for testing
type mockState struct{}

func (m *mockState) Get(key string) (any, error) {
	return nil, errors.New("key not found")
}

func (m *mockState) Set(key string, value any) error {
	return nil
}

func (m *mockState) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {}
}

// mockEvents is a mock implementation of session.Events
type mockEvents struct {
	events []*session.Event
}

func (m *mockEvents) All() iter.Seq[*session.Event] {
	return func(yield func(*session.Event) bool) {
		for _, e := range m.events {
			if !yield(e) {
				return
			}
		}
	}
}

func (m *mockEvents) Len() int {
	return len(m.events)
}

func (m *mockEvents) At(i int) *session.Event {
	if i < 0 || i >= len(m.events) {
		return nil
	}
	return m.events[i]
}

func textEvent(author string, texts ...string) *session.Event {
	parts := make([]*genai.Part, 0, len(texts))
	for _, text := range texts {
		parts = append(parts, &genai.Part{Text: text})
	}
	return &session.Event{
		Author:      author,
		LLMResponse: model.LLMResponse{Content: &genai.Content{Parts: parts}},
	}
}

func TestService_AddSession(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		events       []*session.Event
		embedder     *mockEmbedder
		store        *mockStore
		wantSaved    []savedExchange
		wantErrorMsg string
	}{
		{
			name: "saves latest prompt and reply",
			events: []*session.Event{
				textEvent("user", "first question"),
				textEvent("decal_agent", "first answer"),
				textEvent("user", "second ", "question"),
				{
					Author: "decal_agent",
					LLMResponse: model.LLMResponse{Content: &genai.Content{
						Parts: []*genai.Part{{FunctionCall: &genai.FunctionCall{Name: "evaluate_perceptron"}}},
					}},
				},
				textEvent("decal_agent", "second answer"),
			},
			embedder:  &mockEmbedder{},
			store:     &mockStore{},
			wantSaved: []savedExchange{{"conv-1", "second  question", "second answer", nil}},
		},
		{
			name:     "skip when no agent reply follows the last prompt",
			events:   []*session.Event{textEvent("decal_agent", "hello"), textEvent("user", "question")},
			embedder: &mockEmbedder{},
			store:    &mockStore{},
		},
		{
			name:     "skip when no user prompt",
			events:   []*session.Event{textEvent("decal_agent", "unprompted")},
			embedder: &mockEmbedder{},
			store:    &mockStore{},
		},
		{
			name:         "error when embedding generation fails",
			events:       []*session.Event{textEvent("user", "q"), textEvent("decal_agent", "a")},
			embedder:     &mockEmbedder{embedError: errors.New("embedding failed")},
			store:        &mockStore{},
			wantErrorMsg: "failed to generate embedding for session",
		},
		{
			name:         "error when save fails",
			events:       []*session.Event{textEvent("user", "q"), textEvent("decal_agent", "a")},
			embedder:     &mockEmbedder{},
			store:        &mockStore{saveError: errors.New("database error")},
			wantErrorMsg: "failed to save session to memory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.store, tt.embedder)
			err := svc.AddSession(ctx, &mockSession{userID: "conv-1", events: tt.events})

			if tt.wantErrorMsg != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErrorMsg) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErrorMsg, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(tt.store.savedExchanges) != len(tt.wantSaved) {
				t.Fatalf("expected %d saved exchanges, got %d", len(tt.wantSaved), len(tt.store.savedExchanges))
			}
			for i, want := range tt.wantSaved {
				got := tt.store.savedExchanges[i]
				if got.conversationID != want.conversationID || got.prompt != want.prompt || got.reply != want.reply {
					t.Errorf("saved[%d] = %+v, want %+v", i, got, want)
				}
			}
		})
	}
}

func TestService_AddSessionWithoutEmbedder(t *testing.T) {
	store := &mockStore{}
	svc := NewService(store, nil)
	err := svc.AddSession(context.Background(), &mockSession{
		userID: "conv-1",
		events: []*session.Event{textEvent("user", "q"), textEvent("decal_agent", "a")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.savedExchanges) != 0 {
		t.Error("nothing should be saved without an embedder")
	}
}

func TestService_Search(t *testing.T) {
	ctx := context.Background()
	occurred := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	store := &mockStore{
		searchResults: []Exchange{
			{ID: 1, Prompt: "what is a perceptron", Reply: "a threshold unit", SimilarityScore: 0.9, OccurredAt: occurred},
			{ID: 2},
		},
	}
	svc := NewService(store, &mockEmbedder{})

	resp, err := svc.Search(ctx, &adkmemory.SearchRequest{Query: "perceptron", UserID: "conv-9"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if store.searchedConv != "conv-9" {
		t.Errorf("search should be scoped to the user id, got %q", store.searchedConv)
	}
	if len(resp.Memories) != 1 {
		t.Fatalf("expected 1 memory (empty exchanges skipped), got %d", len(resp.Memories))
	}

	mem := resp.Memories[0]
	if mem.Author != "system" || !mem.Timestamp.Equal(occurred) {
		t.Errorf("unexpected memory metadata %+v", mem)
	}
	text := mem.Content.Parts[0].Text
	if text != "Prompt: what is a perceptron\nReply: a threshold unit" {
		t.Errorf("unexpected memory text %q", text)
	}
}

func TestService_SearchErrors(t *testing.T) {
	ctx := context.Background()

	svc := NewService(&mockStore{}, &mockEmbedder{embedError: errors.New("boom")})
	if _, err := svc.Search(ctx, &adkmemory.SearchRequest{Query: "q"}); err == nil || !strings.Contains(err.Error(), "failed to generate query embedding") {
		t.Errorf("expected embedding error, got %v", err)
	}

	svc = NewService(&mockStore{searchError: errors.New("db down")}, &mockEmbedder{})
	if _, err := svc.Search(ctx, &adkmemory.SearchRequest{Query: "q"}); err == nil || !strings.Contains(err.Error(), "failed to search similar exchanges") {
		t.Errorf("expected search error, got %v", err)
	}

	svc = NewService(&mockStore{}, nil)
	resp, err := svc.Search(ctx, &adkmemory.SearchRequest{Query: "q"})
	if err != nil || len(resp.Memories) != 0 {
		t.Errorf("expected empty result without embedder, got %v, %v", resp, err)
	}
}
