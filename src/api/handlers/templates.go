package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"payplan/src/schemas"
	"payplan/src/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (h *Handler) GetTemplates(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tenantID, err := uuid.Parse(r.URL.Query().Get("tenantId"))
	if err != nil {
		h.HandleErrors(w, utils.BadRequest("missing or invalid tenantId parameter"))
		return
	}

	templates, err := h.Controller.GetTemplatesByTenant(ctx, tenantID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, templates, http.StatusOK)
}

func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req schemas.CreateEmailTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleErrors(w, utils.BadRequest(err.Error()))
		return
	}

	template, err := h.Controller.CreateTemplate(ctx, &req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, template, http.StatusCreated)
}

func (h *Handler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.HandleErrors(w, utils.BadRequest("invalid template id"))
		return
	}

	var req schemas.UpdateEmailTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleErrors(w, utils.BadRequest(err.Error()))
		return
	}

	template, err := h.Controller.UpdateTemplate(ctx, id, &req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, template, http.StatusOK)
}

func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.HandleErrors(w, utils.BadRequest("invalid template id"))
		return
	}

	if err := h.Controller.DeleteTemplate(ctx, id); err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, nil, http.StatusNoContent)
}
