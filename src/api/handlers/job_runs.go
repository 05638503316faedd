package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"payplan/src/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (h *Handler) GetJobRuns(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	runs, err := h.Controller.GetJobRuns(ctx, limit)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, runs, http.StatusOK)
}

func (h *Handler) GetJobRunByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.HandleErrors(w, utils.BadRequest("invalid job run id"))
		return
	}

	run, err := h.Controller.GetJobRunByID(ctx, id)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, run, http.StatusOK)
}

func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	installmentID, err := uuid.Parse(r.URL.Query().Get("installmentId"))
	if err != nil {
		h.HandleErrors(w, utils.BadRequest("missing or invalid installmentId parameter"))
		return
	}

	entries, err := h.Controller.GetNotificationsByInstallment(ctx, installmentID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, entries, http.StatusOK)
}
