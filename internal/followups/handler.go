package followups

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dentalops/leadflow/internal/http/apierror"
	"github.com/dentalops/leadflow/internal/leads"
	"github.com/dentalops/leadflow/pkg/logging"
)

// Handler serves the follow-up template and job endpoints.
type Handler struct {
	templates TemplateRepository
	jobs      JobRepository
	service   *Service
	logger    *logging.Logger
}

// NewHandler creates a follow-ups handler.
func NewHandler(templates TemplateRepository, jobs JobRepository, service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{templates: templates, jobs: jobs, service: service, logger: logger}
}

// ListTemplates handles GET /api/followups/templates/.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	all, err := h.templates.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list templates", "error", err)
		apierror.Detail(w, http.StatusInternalServerError, "failed to list templates")
		return
	}
	if all == nil {
		all = []*Template{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(all)
}

// CreateTemplate handles POST /api/followups/templates/.
func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var tpl Template
	if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
		apierror.Detail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if errs := tpl.Validate(); !errs.Empty() {
		apierror.Fields(w, errs)
		return
	}
	tpl.Normalize()
	tpl.ID = ""
	if err := h.templates.Create(r.Context(), &tpl); err != nil {
		h.logger.Error("failed to create template", "error", err)
		apierror.Detail(w, http.StatusInternalServerError, "failed to create template")
		return
	}
	h.logger.Info("template created", "id", tpl.ID, "name", tpl.Name)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(&tpl)
}

// PatchTemplate handles PATCH /api/followups/templates/{id}/.
func (h *Handler) PatchTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch TemplatePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		apierror.Detail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	errs := apierror.FieldErrors{}
	if patch.Channel != nil && !patch.Channel.Valid() {
		errs.Add("channel", "must be email or sms")
	}
	if patch.TriggerOn != nil && !patch.TriggerOn.Valid() {
		errs.Add("trigger_on", "must be qualified, nurture or disqualified")
	}
	if patch.DelayMinutes != nil && *patch.DelayMinutes < 0 {
		errs.Add("delay_minutes", "must be zero or positive")
	}
	if !errs.Empty() {
		apierror.Fields(w, errs)
		return
	}

	// Switching to SMS drops the subject line.
	if patch.Channel != nil && *patch.Channel == ChannelSMS && patch.Subject == nil {
		empty := ""
		patch.Subject = &empty
	}

	tpl, err := h.templates.Patch(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			apierror.Detail(w, http.StatusNotFound, "template not found")
			return
		}
		h.logger.Error("failed to patch template", "error", err, "id", id)
		apierror.Detail(w, http.StatusInternalServerError, "failed to update template")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tpl)
}

// DeleteTemplate handles DELETE /api/followups/templates/{id}/.
func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.templates.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			apierror.Detail(w, http.StatusNotFound, "template not found")
			return
		}
		h.logger.Error("failed to delete template", "error", err, "id", id)
		apierror.Detail(w, http.StatusInternalServerError, "failed to delete template")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListJobs handles GET /api/followups/jobs/?status=pending. Without the
// query parameter the full collection comes back.
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	status := JobStatus(r.URL.Query().Get("status"))
	if status != "" && status != JobPending && status != JobSent {
		errs := apierror.FieldErrors{}
		errs.Add("status", "must be pending or sent")
		apierror.Fields(w, errs)
		return
	}

	all, err := h.jobs.List(r.Context(), status)
	if err != nil {
		h.logger.Error("failed to list jobs", "error", err)
		apierror.Detail(w, http.StatusInternalServerError, "failed to list jobs")
		return
	}
	if all == nil {
		all = []*Job{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(all)
}

// ScheduleJob handles POST /api/followups/jobs/schedule/. When send_now
// is set, dispatch is chained after the job is created; a dispatch
// failure still returns 201 with the pending job so the caller can
// retry via send_now.
func (h *Handler) ScheduleJob(w http.ResponseWriter, r *http.Request) {
	var req ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.Detail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	errs := apierror.FieldErrors{}
	if req.Lead == "" {
		errs.Add("lead", "Required")
	}
	if req.Template == "" {
		errs.Add("template", "Required")
	}
	if !errs.Empty() {
		apierror.Fields(w, errs)
		return
	}

	job, err := h.service.Schedule(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, leads.ErrLeadNotFound):
			apierror.Detail(w, http.StatusNotFound, "lead not found")
		case errors.Is(err, ErrTemplateNotFound):
			apierror.Detail(w, http.StatusNotFound, "template not found")
		default:
			h.logger.Error("failed to schedule job", "error", err)
			apierror.Detail(w, http.StatusInternalServerError, "failed to schedule job")
		}
		return
	}

	if req.SendNow {
		sent, err := h.service.SendNow(r.Context(), job.ID)
		if err != nil {
			h.logger.Error("send_now after schedule failed; job remains pending",
				"error", err, "job", job.ID)
		} else {
			job = sent
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(job)
}

// SendJobNow handles POST /api/followups/jobs/{id}/send_now/.
func (h *Handler) SendJobNow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, err := h.service.SendNow(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrJobNotFound):
			apierror.Detail(w, http.StatusNotFound, "job not found")
		case errors.Is(err, ErrJobAlreadySent):
			apierror.Detail(w, http.StatusConflict, "job already sent")
		case errors.Is(err, leads.ErrLeadNotFound):
			apierror.Detail(w, http.StatusConflict, "lead no longer exists")
		case errors.Is(err, ErrTemplateNotFound):
			apierror.Detail(w, http.StatusConflict, "template no longer exists")
		default:
			h.logger.Error("failed to send job", "error", err, "id", id)
			apierror.Detail(w, http.StatusBadGateway, "failed to send follow-up")
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}
