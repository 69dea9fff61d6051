package api

import (
	"net/http"
	"strconv"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/models"
	"github.com/nijaru/yt-summary/repository"
)

const defaultHistoryLimit = 20

type HistoryHandler struct {
	repo repository.OutcomeRepository
}

func NewHistoryHandler(repo repository.OutcomeRepository) *HistoryHandler {
	return &HistoryHandler{repo: repo}
}

// HandleList handles GET /history?limit=N
func (h *HistoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "HistoryHandler.HandleList"

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			respondError(w, r, errors.InvalidInput(op, err, "limit must be between 1 and 100"))
			return
		}
		limit = n
	}

	outcomes, err := h.repo.Recent(r.Context(), limit)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, models.HistoryResponse{
		Outcomes: outcomes,
		Count:    len(outcomes),
	})
}

// HandleGet handles GET /history/{id}
func (h *HistoryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "HistoryHandler.HandleGet"

	id := r.PathValue("id")
	if id == "" {
		respondError(w, r, errors.InvalidInput(op, nil, "ID is required"))
		return
	}

	outcome, err := h.repo.Find(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, outcome)
}
