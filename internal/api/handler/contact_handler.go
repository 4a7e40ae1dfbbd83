package handler

import (
	"encoding/json"
	"net/http"

	"codeconnect/internal/app/service"
	"codeconnect/internal/common"

	"github.com/go-chi/chi/v5"
)

type ContactHandler struct {
	contactService *service.ContactService
}

func NewContactHandler(cs *service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: cs}
}

func (h *ContactHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.submitMessage)
}

func (h *ContactHandler) submitMessage(w http.ResponseWriter, r *http.Request) {
	var req service.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	msg, err := h.contactService.Submit(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, msg)
}
