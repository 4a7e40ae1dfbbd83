package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"codeconnect/internal/api/middleware"
	"codeconnect/internal/app/service"
	"codeconnect/internal/common"

	"github.com/go-chi/chi/v5"
)

type ProfileHandler struct {
	profileService *service.ProfileService
	statsService   *service.StatsService
}

func NewProfileHandler(ps *service.ProfileService, stats *service.StatsService) *ProfileHandler {
	return &ProfileHandler{profileService: ps, statsService: stats}
}

func (h *ProfileHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listProfiles)

	r.Group(func(private chi.Router) {
		private.Use(middleware.Authenticator)
		private.Get("/me", h.myProfile)
		private.Post("/", h.upsertProfile)
		private.Get("/stats/company", h.companyStats)
	})

	r.Get("/{userID}", h.profileByUserID)
}

func (h *ProfileHandler) myProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	profile, err := h.profileService.GetByUserID(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) upsertProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req service.UpsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	profile, err := h.profileService.Upsert(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) listProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profileService.List(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, profiles)
}

func (h *ProfileHandler) profileByUserID(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileService.GetByUserID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) companyStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	stats, err := h.statsService.ComputeCompanyStats(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	// Engagement goes over the wire as a percent string, e.g. "40%".
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"totalCandidates": stats.TotalCandidates,
		"topPerformers":   stats.TopPerformers,
		"engagement":      fmt.Sprintf("%d%%", stats.Engagement),
	})
}
