package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"prepai-backend/internal/models"
	"prepai-backend/internal/services"
)

type deckGenerator interface {
	Generate(ctx context.Context, topic string) (*services.GenerateResult, error)
}

type deckStore interface {
	List(ctx context.Context) ([]*models.Deck, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.Deck, error)
	UpdateProgress(ctx context.Context, id uuid.UUID, progress int) (*models.Deck, error)
}

type DeckHandler struct {
	generator   deckGenerator
	store       deckStore
	showDetails bool
}

func NewDeckHandler(generator deckGenerator, store deckStore, showDetails bool) *DeckHandler {
	return &DeckHandler{
		generator:   generator,
		store:       store,
		showDetails: showDetails,
	}
}

// Generate answers 200 for a cache hit and 201 for a newly generated
// deck.
func (h *DeckHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Topic is required and must be a non-empty string", "")
		return
	}

	result, err := h.generator.Generate(r.Context(), req.Topic)
	if err != nil {
		handleServiceError(w, err, h.showDetails)
		return
	}

	status := http.StatusOK
	if result.Source == services.SourceAI {
		status = http.StatusCreated
	}

	writeJSON(w, status, map[string]interface{}{
		"success": true,
		"source":  result.Source,
		"data":    result.Deck,
	})
}

func (h *DeckHandler) List(w http.ResponseWriter, r *http.Request) {
	decks, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch decks", h.details(err))
		return
	}

	if decks == nil {
		decks = []*models.Deck{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(decks),
		"data":    decks,
	})
}

func (h *DeckHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid deck ID", "")
		return
	}

	deck, err := h.store.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "Deck not found", "")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete deck", h.details(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Deck deleted successfully",
		"data":    deck,
	})
}

func (h *DeckHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid deck ID", "")
		return
	}

	var req models.UpdateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Progress == nil {
		writeError(w, http.StatusBadRequest, "Progress must be a number between 0 and 100", "")
		return
	}

	p := *req.Progress
	if p != math.Trunc(p) || p < 0 || p > 100 {
		writeError(w, http.StatusBadRequest, "Progress must be a number between 0 and 100", "")
		return
	}

	deck, err := h.store.UpdateProgress(r.Context(), id, int(p))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "Deck not found", "")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update progress", h.details(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Progress updated",
		"data":    deck,
	})
}

func (h *DeckHandler) details(err error) string {
	if h.showDetails {
		return err.Error()
	}
	return ""
}
