package services

import (
	"fmt"
	"strings"

	"prepai-backend/internal/models"
)

const (
	topicMinLen    = 2
	topicMaxLen    = 100
	questionMinLen = 3
)

// ValidateDeck checks a deck against the persistence rules before any
// write is attempted: topic length, at least one card, and per-card
// question/answer/difficulty constraints. It returns a map of field
// path to violation message, empty on success.
func ValidateDeck(topic, category string, cards []models.Card) map[string]string {
	violations := make(map[string]string)

	topic = strings.TrimSpace(topic)
	if len(topic) < topicMinLen {
		violations["topic"] = fmt.Sprintf("Topic must be at least %d characters long", topicMinLen)
	} else if len(topic) > topicMaxLen {
		violations["topic"] = fmt.Sprintf("Topic cannot exceed %d characters", topicMaxLen)
	}

	if len(cards) == 0 {
		violations["cards"] = "Deck must contain at least one card"
	}

	for i, card := range cards {
		if len(strings.TrimSpace(card.Question)) < questionMinLen {
			violations[fmt.Sprintf("cards[%d].question", i)] = fmt.Sprintf("Question must be at least %d characters long", questionMinLen)
		}
		if strings.TrimSpace(card.Answer) == "" {
			violations[fmt.Sprintf("cards[%d].answer", i)] = "Answer cannot be empty"
		}
		if !ValidDifficulty(card.Difficulty) {
			violations[fmt.Sprintf("cards[%d].difficulty", i)] = "Difficulty must be easy, medium, or hard"
		}
	}

	return violations
}

// ValidDifficulty reports whether d is one of the accepted difficulty
// levels. Comparison is case-insensitive.
func ValidDifficulty(d string) bool {
	switch strings.ToLower(d) {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
		return true
	}
	return false
}
