package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"prepai-backend/internal/models"
)

type fakeStore struct {
	decks   []*models.Deck
	created []*models.Deck
}

func (f *fakeStore) Count(ctx context.Context) (int, error) {
	return len(f.decks), nil
}

func (f *fakeStore) FindByTopic(ctx context.Context, topic string) (*models.Deck, error) {
	for _, d := range f.decks {
		if strings.EqualFold(d.Topic, topic) {
			return d, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStore) Create(ctx context.Context, d *models.Deck) error {
	d.ID = uuid.New()
	f.decks = append(f.decks, d)
	f.created = append(f.created, d)
	return nil
}

type fakeAI struct {
	response string
	err      error
	calls    int
}

func (f *fakeAI) GenerateDeck(ctx context.Context, topic string) (string, error) {
	f.calls++
	return f.response, f.err
}

func validDeckJSON() string {
	cards := make([]string, 10)
	for i := range cards {
		cards[i] = fmt.Sprintf(`{"question":"ABC%d","answer":"Answer %d","difficulty":"easy"}`, i, i)
	}
	return fmt.Sprintf(`{"topic":"Computer Networks","category":"Tech","cards":[%s]}`, strings.Join(cards, ","))
}

func newTestService(store *fakeStore, ai *fakeAI) *DeckService {
	return NewDeckService(store, ai, 15)
}

func seedDecks(store *fakeStore, n int) {
	for i := 0; i < n; i++ {
		store.decks = append(store.decks, &models.Deck{
			ID:    uuid.New(),
			Topic: fmt.Sprintf("Seeded Topic %d", i),
			Cards: []models.Card{{Question: "CPU", Answer: "Central Processing Unit", Difficulty: "easy"}},
		})
	}
}

func TestGenerate_RejectsEmptyTopic(t *testing.T) {
	tests := []struct {
		name  string
		topic string
	}{
		{"empty string", ""},
		{"whitespace only", "   "},
		{"tabs and newlines", "\t\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{}
			ai := &fakeAI{response: validDeckJSON()}
			svc := newTestService(store, ai)

			_, err := svc.Generate(context.Background(), tc.topic)

			var invalid *InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidInputError, got %v", err)
			}
			if ai.calls != 0 {
				t.Errorf("expected no AI call, got %d", ai.calls)
			}
			if len(store.created) != 0 {
				t.Errorf("expected no deck created, got %d", len(store.created))
			}
		})
	}
}

func TestGenerate_NewTopicCreatesDeck(t *testing.T) {
	store := &fakeStore{}
	ai := &fakeAI{response: validDeckJSON()}
	svc := newTestService(store, ai)

	result, err := svc.Generate(context.Background(), "Computer Networks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Source != SourceAI {
		t.Errorf("expected source %q, got %q", SourceAI, result.Source)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected exactly 1 deck created, got %d", len(store.created))
	}
	if result.Deck.CardCount() != 10 {
		t.Errorf("expected 10 cards, got %d", result.Deck.CardCount())
	}
	if result.Deck.Topic != "Computer Networks" {
		t.Errorf("expected AI-summarized topic, got %q", result.Deck.Topic)
	}
	if result.Deck.Category != "Tech" {
		t.Errorf("expected category Tech, got %q", result.Deck.Category)
	}
	for i, c := range result.Deck.Cards {
		if !ValidDifficulty(c.Difficulty) {
			t.Errorf("card %d has invalid difficulty %q", i, c.Difficulty)
		}
	}
}

func TestGenerate_CacheHitSkipsAI(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"exact match", "Computer Networks"},
		{"different case", "computer networks"},
		{"surrounding whitespace", "  Computer Networks  "},
		{"uppercase", "COMPUTER NETWORKS"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			existing := &models.Deck{
				ID:    uuid.New(),
				Topic: "Computer Networks",
				Cards: []models.Card{{Question: "TCP", Answer: "Transmission Control Protocol", Difficulty: "medium"}},
			}
			store := &fakeStore{decks: []*models.Deck{existing}}
			ai := &fakeAI{response: validDeckJSON()}
			svc := newTestService(store, ai)

			result, err := svc.Generate(context.Background(), tc.query)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if result.Source != SourceCache {
				t.Errorf("expected source %q, got %q", SourceCache, result.Source)
			}
			if result.Deck.ID != existing.ID {
				t.Errorf("expected existing deck ID %s, got %s", existing.ID, result.Deck.ID)
			}
			if ai.calls != 0 {
				t.Errorf("expected no AI call on cache hit, got %d", ai.calls)
			}
			if len(store.created) != 0 {
				t.Errorf("expected no write on cache hit, got %d", len(store.created))
			}
		})
	}
}

func TestGenerate_CapacityExceeded(t *testing.T) {
	store := &fakeStore{}
	seedDecks(store, 15)
	ai := &fakeAI{response: validDeckJSON()}
	svc := newTestService(store, ai)

	_, err := svc.Generate(context.Background(), "Brand New Topic")

	var capacity *CapacityError
	if !errors.As(err, &capacity) {
		t.Fatalf("expected CapacityError, got %v", err)
	}
	if capacity.Message != "Deck limit reached (15). Please delete some decks to create new ones." {
		t.Errorf("unexpected capacity message: %q", capacity.Message)
	}
	if ai.calls != 0 {
		t.Errorf("expected no AI call at capacity, got %d", ai.calls)
	}
	if len(store.decks) != 15 {
		t.Errorf("expected deck count unchanged at 15, got %d", len(store.decks))
	}
}

func TestGenerate_CapacityMessageReflectsConfiguredLimit(t *testing.T) {
	store := &fakeStore{}
	seedDecks(store, 3)
	ai := &fakeAI{response: validDeckJSON()}
	svc := NewDeckService(store, ai, 3)

	_, err := svc.Generate(context.Background(), "Brand New Topic")

	var capacity *CapacityError
	if !errors.As(err, &capacity) {
		t.Fatalf("expected CapacityError, got %v", err)
	}
	if !strings.Contains(capacity.Message, "(3)") {
		t.Errorf("expected message to carry the configured limit, got %q", capacity.Message)
	}
}

func TestGenerate_CapacityAllowsExistingTopic(t *testing.T) {
	store := &fakeStore{}
	seedDecks(store, 15)
	ai := &fakeAI{response: validDeckJSON()}
	svc := newTestService(store, ai)

	result, err := svc.Generate(context.Background(), "seeded topic 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Source != SourceCache {
		t.Errorf("expected cache hit at capacity for existing topic, got %q", result.Source)
	}
	if len(store.decks) != 15 {
		t.Errorf("expected deck count unchanged, got %d", len(store.decks))
	}
}

func TestGenerate_AITransportFailure(t *testing.T) {
	store := &fakeStore{}
	ai := &fakeAI{err: errors.New("connection reset")}
	svc := newTestService(store, ai)

	_, err := svc.Generate(context.Background(), "Networking")

	var unavailable *AIUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected AIUnavailableError, got %v", err)
	}
	if len(store.created) != 0 {
		t.Errorf("expected no deck created on AI failure, got %d", len(store.created))
	}
}

func TestGenerate_MalformedAIResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"plain prose", "Sorry, I cannot generate flashcards for this topic."},
		{"truncated JSON", `{"topic":"Networks","cards":[{"question":"TCP"`},
		{"empty response fenced", "```json\n```"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{}
			ai := &fakeAI{response: tc.response}
			svc := newTestService(store, ai)

			_, err := svc.Generate(context.Background(), "Networking")

			var malformed *AIMalformedError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected AIMalformedError, got %v", err)
			}
			if len(store.created) != 0 {
				t.Errorf("expected no deck created, got %d", len(store.created))
			}
		})
	}
}

func TestGenerate_InvalidAIDeckShape(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"no cards", `{"topic":"Networks","category":"Tech","cards":[]}`},
		{"missing cards field", `{"topic":"Networks","category":"Tech"}`},
		{"empty question", `{"topic":"Networks","cards":[{"question":"","answer":"x","difficulty":"easy"}]}`},
		{"empty answer", `{"topic":"Networks","cards":[{"question":"TCP","answer":"","difficulty":"easy"}]}`},
		{"unknown difficulty", `{"topic":"Networks","cards":[{"question":"TCP","answer":"x","difficulty":"extreme"}]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{}
			ai := &fakeAI{response: tc.response}
			svc := newTestService(store, ai)

			_, err := svc.Generate(context.Background(), "Networking")

			var invalid *AIInvalidError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected AIInvalidError, got %v", err)
			}
			if len(store.created) != 0 {
				t.Errorf("expected no deck created, got %d", len(store.created))
			}
		})
	}
}

func TestGenerate_FencedResponseIsAccepted(t *testing.T) {
	store := &fakeStore{}
	ai := &fakeAI{response: "```json\n" + validDeckJSON() + "\n```"}
	svc := newTestService(store, ai)

	result, err := svc.Generate(context.Background(), "Computer Networks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Source != SourceAI {
		t.Errorf("expected source %q, got %q", SourceAI, result.Source)
	}
}

func TestGenerate_MixedCaseDifficultyIsNormalized(t *testing.T) {
	store := &fakeStore{}
	ai := &fakeAI{response: `{"topic":"Networks","category":"Tech","cards":[{"question":"TCP","answer":"Transmission Control Protocol","difficulty":"Easy"},{"question":"UDP","answer":"User Datagram Protocol","difficulty":"MEDIUM"}]}`}
	svc := newTestService(store, ai)

	result, err := svc.Generate(context.Background(), "Networks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Deck.Cards[0].Difficulty != "easy" {
		t.Errorf("expected easy, got %q", result.Deck.Cards[0].Difficulty)
	}
	if result.Deck.Cards[1].Difficulty != "medium" {
		t.Errorf("expected medium, got %q", result.Deck.Cards[1].Difficulty)
	}
}

func TestGenerate_FallsBackToUserTopicAndDefaultCategory(t *testing.T) {
	store := &fakeStore{}
	ai := &fakeAI{response: `{"cards":[{"question":"TCP","answer":"Transmission Control Protocol","difficulty":"easy"}]}`}
	svc := newTestService(store, ai)

	result, err := svc.Generate(context.Background(), "  Computer Networks  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Deck.Topic != "Computer Networks" {
		t.Errorf("expected trimmed user topic fallback, got %q", result.Deck.Topic)
	}
	if result.Deck.Category != "General" {
		t.Errorf("expected default category General, got %q", result.Deck.Category)
	}
}

func TestGenerate_PersistenceRulesRejectShortQuestions(t *testing.T) {
	// "AI" passes the shape check (non-empty) but fails the 3-character
	// persistence minimum.
	store := &fakeStore{}
	ai := &fakeAI{response: `{"topic":"Tech","cards":[{"question":"AI","answer":"Artificial Intelligence","difficulty":"easy"}]}`}
	svc := newTestService(store, ai)

	_, err := svc.Generate(context.Background(), "Technology")

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := validation.Fields["cards[0].question"]; !ok {
		t.Errorf("expected violation on cards[0].question, got %v", validation.Fields)
	}
	if len(store.created) != 0 {
		t.Errorf("expected no deck created, got %d", len(store.created))
	}
}
