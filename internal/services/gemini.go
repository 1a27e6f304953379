package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient wraps the generative model behind a single text-out
// call. Parsing and validation of the output happen in DeckService.
type GeminiClient struct {
	client       *genai.Client
	model        *genai.GenerativeModel
	cardsPerDeck int
}

func NewGeminiClient(apiKey string, cardsPerDeck int) (*GeminiClient, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-2.5-flash")
	model.SetTemperature(0.3)
	model.SetTopP(0.95)

	return &GeminiClient{
		client:       client,
		model:        model,
		cardsPerDeck: cardsPerDeck,
	}, nil
}

func (c *GeminiClient) Close() {
	c.client.Close()
}

// GenerateDeck asks the model for a flashcard deck on the topic and
// returns the raw response text.
func (c *GeminiClient) GenerateDeck(ctx context.Context, topic string) (string, error) {
	prompt := buildDeckPrompt(topic, c.cardsPerDeck)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("Gemini returned empty response")
	}

	return text, nil
}

func buildDeckPrompt(topic string, numCards int) string {
	var b strings.Builder

	b.WriteString("You are an expert educational AI.\n\n")
	b.WriteString(fmt.Sprintf("User Topic: %q\n\n", topic))
	b.WriteString(fmt.Sprintf("Task: Generate exactly %d flashcards strictly focused on ACRONYMS and ABBREVIATIONS related to the topic.\n\n", numCards))

	b.WriteString("Requirements:\n")
	b.WriteString("1. Summarize Topic: Create a short, concise title for the deck (e.g., \"Computer Networks\" instead of \"history of computer networks...\").\n")
	b.WriteString("2. Categorize: Assign a broad category (e.g., \"Tech\", \"Science\", \"Medical\", \"Business\", \"General\").\n")
	b.WriteString(fmt.Sprintf("3. Flashcards: Generate %d cards.\n", numCards))
	b.WriteString("   - Question: The Acronym (e.g., \"CPU\").\n")
	b.WriteString("   - Answer: The Full Form + Brief definition (e.g., \"Central Processing Unit - The brain of the computer\").\n")
	b.WriteString("   - Difficulty: \"easy\", \"medium\", or \"hard\".\n\n")

	b.WriteString(`Output Format: Return ONLY a valid JSON object (no markdown):
{
  "topic": "Summarized Topic Name",
  "category": "Category Name",
  "cards": [
    { "question": "CPU", "answer": "Central Processing Unit...", "difficulty": "easy" }
  ]
}`)

	return b.String()
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
