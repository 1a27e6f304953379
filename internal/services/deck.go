package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"prepai-backend/internal/models"
)

// Source values reported on a generate result.
const (
	SourceCache = "cache"
	SourceAI    = "ai"
)

type deckStore interface {
	Count(ctx context.Context) (int, error)
	FindByTopic(ctx context.Context, topic string) (*models.Deck, error)
	Create(ctx context.Context, d *models.Deck) error
}

type textGenerator interface {
	GenerateDeck(ctx context.Context, topic string) (string, error)
}

type GenerateResult struct {
	Deck   *models.Deck
	Source string
}

// DeckService owns the generation flow: dedup lookup, deck ceiling,
// the provider call, output parsing and validation, persistence.
type DeckService struct {
	store    deckStore
	ai       textGenerator
	maxDecks int
}

func NewDeckService(store deckStore, ai textGenerator, maxDecks int) *DeckService {
	return &DeckService{
		store:    store,
		ai:       ai,
		maxDecks: maxDecks,
	}
}

// Generate returns the existing deck for the topic when one matches
// case-insensitively, otherwise generates and persists a new one.
// At most one write happens per call, and only on the AI path.
func (s *DeckService) Generate(ctx context.Context, topicRaw string) (*GenerateResult, error) {
	topic := strings.TrimSpace(topicRaw)
	if topic == "" {
		return nil, &InvalidInputError{Message: "Topic is required and must be a non-empty string"}
	}

	// An existing deck is always served, even when the ceiling is hit.
	existing, err := s.store.FindByTopic(ctx, topic)
	if err == nil {
		return &GenerateResult{Deck: existing, Source: SourceCache}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count >= s.maxDecks {
		return nil, &CapacityError{
			Message: fmt.Sprintf("Deck limit reached (%d). Please delete some decks to create new ones.", s.maxDecks),
		}
	}

	raw, err := s.ai.GenerateDeck(ctx, topic)
	if err != nil {
		return nil, &AIUnavailableError{Message: "AI provider request failed. Please try again.", Err: err}
	}

	parsed, err := parseDeckResponse(raw)
	if err != nil {
		return nil, err
	}

	deck := &models.Deck{
		Topic:    topic,
		Category: "General",
		Cards:    parsed.cards(),
	}
	// Prefer the AI-summarized topic and category when present.
	if t := strings.TrimSpace(parsed.Topic); t != "" {
		deck.Topic = t
	}
	if c := strings.TrimSpace(parsed.Category); c != "" {
		deck.Category = c
	}

	if violations := ValidateDeck(deck.Topic, deck.Category, deck.Cards); len(violations) > 0 {
		return nil, &ValidationError{Fields: violations}
	}

	if err := s.store.Create(ctx, deck); err != nil {
		return nil, err
	}

	return &GenerateResult{Deck: deck, Source: SourceAI}, nil
}
