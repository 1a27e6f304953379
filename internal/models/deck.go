package models

import (
	"time"

	"github.com/google/uuid"
)

// Difficulty values accepted on a card.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

type Card struct {
	ID         uuid.UUID `json:"id"`
	DeckID     uuid.UUID `json:"deck_id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Difficulty string    `json:"difficulty"`
	Position   int       `json:"position"`
}

type Deck struct {
	ID        uuid.UUID `json:"id"`
	Topic     string    `json:"topic"`
	Category  string    `json:"category"`
	Progress  int       `json:"progress"`
	Cards     []Card    `json:"cards"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (d *Deck) CardCount() int {
	return len(d.Cards)
}

type GenerateRequest struct {
	Topic string `json:"topic"`
}

type UpdateProgressRequest struct {
	// Pointer so a missing field and an explicit null are both
	// distinguishable from zero.
	Progress *float64 `json:"progress"`
}
