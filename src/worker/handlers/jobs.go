package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"

	"payplan/src/utils"

	"github.com/go-chi/jwtauth"
)

// RunOverdueJob is the run-now entry point called by the scheduler trigger.
// The bearer token is checked before anything else; rejected callers are not
// job executions and leave no ledger entry. The job runs on a context
// detached from the request: a client disconnect or caller-side timeout must
// not abort a pass mid-run, and the job_runs ledger, which callers should
// poll, records the eventual completion either way.
func (h *Handler) RunOverdueJob(w http.ResponseWriter, r *http.Request) {
	ctx := utils.WithLogger(context.Background(), h.Logger)

	token := jwtauth.TokenFromHeader(r)
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.jobSecret)) != 1 {
		h.HandleErrors(w, utils.Unauthorized("invalid job credential"))
		return
	}

	response, err := h.Controller.RunOverdueJob(ctx)
	if err != nil {
		if response != nil {
			h.respond(w, r, response, http.StatusInternalServerError)
			return
		}
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, response, http.StatusOK)
}
