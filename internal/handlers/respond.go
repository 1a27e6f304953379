package handlers

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"prepai-backend/internal/services"
)

// Every response carries a success flag. Errors are
// {"success": false, "error": msg} with an optional "details" string
// that is only populated outside production.

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	payload := map[string]interface{}{
		"success": false,
		"error":   message,
	}
	if details != "" {
		payload["details"] = details
	}
	writeJSON(w, status, payload)
}

// handleServiceError maps service-layer error types onto HTTP statuses.
// showDetails suppresses diagnostic text in production.
func handleServiceError(w http.ResponseWriter, err error, showDetails bool) {
	details := func(s string) string {
		if showDetails {
			return s
		}
		return ""
	}

	switch e := err.(type) {
	case *services.InvalidInputError:
		writeError(w, http.StatusBadRequest, e.Message, "")
	case *services.CapacityError:
		writeError(w, http.StatusForbidden, e.Message, "")
	case *services.AIMalformedError:
		writeError(w, http.StatusInternalServerError, e.Message, details(e.Raw))
	case *services.AIInvalidError:
		writeError(w, http.StatusInternalServerError, e.Message, "")
	case *services.AIUnavailableError:
		writeError(w, http.StatusBadGateway, e.Message, details(e.Err.Error()))
	case *services.ValidationError:
		writeError(w, http.StatusBadRequest, "Validation error", details(joinFields(e.Fields)))
	case *services.NotFoundError:
		writeError(w, http.StatusNotFound, e.Message, "")
	case *services.UnauthorizedError:
		writeError(w, http.StatusUnauthorized, e.Message, "")
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error", details(err.Error()))
	}
}

func joinFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + fields[k]
	}
	return strings.Join(parts, "; ")
}

// Health is the liveness probe; it answers as long as the process is up.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   "Prep.ai Backend is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
