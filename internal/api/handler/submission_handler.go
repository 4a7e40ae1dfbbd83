package handler

import (
	"encoding/json"
	"net/http"

	"codeconnect/internal/api/middleware"
	"codeconnect/internal/app/service"
	"codeconnect/internal/common"

	"github.com/go-chi/chi/v5"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
	statsService      *service.StatsService
}

func NewSubmissionHandler(ss *service.SubmissionService, stats *service.StatsService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: ss, statsService: stats}
}

func (h *SubmissionHandler) RegisterRoutes(r chi.Router) {
	// Per-user stats are public so profile pages can show anyone's solved
	// breakdown; everything else requires the caller's own token.
	r.Get("/stats/{userID}", h.statsForUser)

	r.Group(func(private chi.Router) {
		private.Use(middleware.Authenticator)
		private.Post("/", h.createSubmission)
		private.Get("/my", h.mySubmissions)
		private.Get("/stats", h.myStats)
	})
}

func (h *SubmissionHandler) createSubmission(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req service.CreateSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	resp, err := h.submissionService.CreateSubmission(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, resp)
}

func (h *SubmissionHandler) mySubmissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	subs, err := h.submissionService.ListMySubmissions(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, subs)
}

func (h *SubmissionHandler) myStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	h.respondStats(w, r, userID)
}

func (h *SubmissionHandler) statsForUser(w http.ResponseWriter, r *http.Request) {
	h.respondStats(w, r, chi.URLParam(r, "userID"))
}

func (h *SubmissionHandler) respondStats(w http.ResponseWriter, r *http.Request, userID string) {
	stats, err := h.statsService.ComputeUserStats(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, stats)
}
