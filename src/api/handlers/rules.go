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

func (h *Handler) GetRules(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tenantID, err := uuid.Parse(r.URL.Query().Get("tenantId"))
	if err != nil {
		h.HandleErrors(w, utils.BadRequest("missing or invalid tenantId parameter"))
		return
	}

	rules, err := h.Controller.GetRulesByTenant(ctx, tenantID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, rules, http.StatusOK)
}

func (h *Handler) CreateRule(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req schemas.CreateNotificationRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleErrors(w, utils.BadRequest(err.Error()))
		return
	}

	rule, err := h.Controller.CreateRule(ctx, &req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, rule, http.StatusCreated)
}

func (h *Handler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.HandleErrors(w, utils.BadRequest("invalid rule id"))
		return
	}

	var req schemas.UpdateNotificationRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleErrors(w, utils.BadRequest(err.Error()))
		return
	}

	rule, err := h.Controller.UpdateRule(ctx, id, &req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, rule, http.StatusOK)
}

func (h *Handler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.HandleErrors(w, utils.BadRequest("invalid rule id"))
		return
	}

	if err := h.Controller.DeleteRule(ctx, id); err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, nil, http.StatusNoContent)
}
