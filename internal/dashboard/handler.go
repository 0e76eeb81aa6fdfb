package dashboard

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dentalops/leadflow/internal/appointments"
	"github.com/dentalops/leadflow/internal/followups"
	"github.com/dentalops/leadflow/internal/http/apierror"
	"github.com/dentalops/leadflow/internal/leads"
	"github.com/dentalops/leadflow/pkg/logging"
)

// Handler serves GET /api/dashboard/stats/.
type Handler struct {
	leads  leads.Repository
	appts  appointments.Repository
	jobs   followups.JobRepository
	now    func() time.Time
	logger *logging.Logger
}

// NewHandler creates a dashboard handler.
func NewHandler(leadRepo leads.Repository, apptRepo appointments.Repository, jobRepo followups.JobRepository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{leads: leadRepo, appts: apptRepo, jobs: jobRepo, now: time.Now, logger: logger}
}

// Stats recomputes the overview from the live collections on every
// request; there is no cached aggregate to go stale.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	allLeads, err := h.leads.List(r.Context())
	if err != nil {
		h.logger.Error("failed to load leads for stats", "error", err)
		apierror.Detail(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	appts, err := h.appts.List(r.Context())
	if err != nil {
		h.logger.Error("failed to load appointments for stats", "error", err)
		apierror.Detail(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	pending, err := h.jobs.List(r.Context(), followups.JobPending)
	if err != nil {
		h.logger.Error("failed to load jobs for stats", "error", err)
		apierror.Detail(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	stats := Compute(h.now().UTC(), allLeads, appts, len(pending))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
