package services

import (
	"encoding/json"
	"strings"

	"prepai-backend/internal/models"
)

type geminiDeck struct {
	Topic    string       `json:"topic"`
	Category string       `json:"category"`
	Cards    []geminiCard `json:"cards"`
}

type geminiCard struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty string `json:"difficulty"`
}

// parseDeckResponse strips markdown code fences from the raw model
// output, parses it, and checks the deck shape. Parse failures and
// shape failures are distinct error kinds.
func parseDeckResponse(raw string) (*geminiDeck, error) {
	cleaned := stripCodeFences(raw)

	parsed := &geminiDeck{}
	if err := json.Unmarshal([]byte(cleaned), parsed); err != nil {
		return nil, &AIMalformedError{
			Message: "Failed to parse AI response. Please try again.",
			Raw:     cleaned,
		}
	}

	if len(parsed.Cards) == 0 {
		return nil, &AIInvalidError{Message: "AI returned invalid data format"}
	}

	for _, card := range parsed.Cards {
		if strings.TrimSpace(card.Question) == "" ||
			strings.TrimSpace(card.Answer) == "" ||
			!ValidDifficulty(card.Difficulty) {
			return nil, &AIInvalidError{Message: "AI returned cards with missing or invalid fields"}
		}
	}

	return parsed, nil
}

// cards converts the parsed payload into model cards, trimming text
// and lowercasing the difficulty.
func (g *geminiDeck) cards() []models.Card {
	cards := make([]models.Card, len(g.Cards))
	for i, c := range g.Cards {
		cards[i] = models.Card{
			Question:   strings.TrimSpace(c.Question),
			Answer:     strings.TrimSpace(c.Answer),
			Difficulty: strings.ToLower(strings.TrimSpace(c.Difficulty)),
			Position:   i,
		}
	}
	return cards
}

func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
