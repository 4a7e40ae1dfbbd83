package handler

import (
	"encoding/json"
	"net/http"

	"codeconnect/internal/api/middleware"
	"codeconnect/internal/common"
	"codeconnect/internal/platform/judge"

	"github.com/go-chi/chi/v5"
)

type CompilerHandler struct {
	judgeClient *judge.Client
}

func NewCompilerHandler(client *judge.Client) *CompilerHandler {
	return &CompilerHandler{judgeClient: client}
}

func (h *CompilerHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Post("/execute", h.execute)
}

func (h *CompilerHandler) execute(w http.ResponseWriter, r *http.Request) {
	var req judge.ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if req.SourceCode == "" {
		common.RespondWithError(w, http.StatusBadRequest, "source_code is required")
		return
	}
	if req.LanguageID == 0 {
		common.RespondWithError(w, http.StatusBadRequest, "language_id is required")
		return
	}

	result, err := h.judgeClient.Execute(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}
