package api

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summary/middleware"
	"github.com/nijaru/yt-summary/models"
	"github.com/nijaru/yt-summary/services/video"
)

type SummaryHandler struct {
	service video.Service
}

func NewSummaryHandler(service video.Service) *SummaryHandler {
	return &SummaryHandler{service: service}
}

// HandleSummarize handles POST /summarize. Pipeline failures are answered
// with 200 and success=false; only an unreadable body gets a 4xx.
func (h *SummaryHandler) HandleSummarize(w http.ResponseWriter, r *http.Request) {
	var req models.VideoRequest
	if err := readJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	outcome := h.service.Summarize(r.Context(), req.VideoID)
	respondJSON(w, r, http.StatusOK, outcome.Response())

	// The client must have the reply before any recorder runs.
	if err := http.NewResponseController(w).Flush(); err != nil {
		middleware.GetLogger(r.Context()).WithError(err).Debug("Failed to flush summarize response")
	}

	h.logRequest(r, logrus.Fields{
		"video_id": outcome.VideoID,
		"success":  outcome.Success,
	})

	h.service.Record(r.Context(), outcome)
}

func (h *SummaryHandler) logRequest(r *http.Request, fields logrus.Fields) {
	middleware.GetLogger(r.Context()).WithFields(fields).Debug("Summarize request answered")
}
