package leads

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dentalops/leadflow/internal/http/apierror"
	"github.com/dentalops/leadflow/pkg/logging"
)

// Handler serves the lead intake and dashboard endpoints.
type Handler struct {
	repo      Repository
	cache     *Cache
	listeners []func(lead *Lead)
	logger    *logging.Logger
}

// NewHandler creates a leads handler.
func NewHandler(repo Repository, cache *Cache, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, cache: cache, logger: logger}
}

// OnCreated registers a callback invoked after each successful intake.
func (h *Handler) OnCreated(fn func(lead *Lead)) {
	h.listeners = append(h.listeners, fn)
}

const maxIntakeFormSize = 1 << 20 // 1 MiB

// CreateLead handles POST /api/lead/ — the public intake form submit.
// The payload is multipart form data with comma-joined multi-value
// fields and a client-computed tags string.
func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxIntakeFormSize); err != nil {
		if err := r.ParseForm(); err != nil {
			apierror.Detail(w, http.StatusBadRequest, "invalid form payload")
			return
		}
	}

	hipaa, _ := strconv.ParseBool(r.FormValue("hipaa"))
	form := &IntakeForm{
		FirstName: r.FormValue("firstName"),
		LastName:  r.FormValue("lastName"),
		Email:     r.FormValue("email"),
		Phone:     r.FormValue("phone"),
		Zip:       r.FormValue("zip"),
		Insurance: r.FormValue("insurance"),
		Situation: r.FormValue("situation"),
		Urgency:   r.FormValue("urgency"),
		Symptoms:  SplitList(r.FormValue("symptoms")),
		Financing: r.FormValue("financing"),
		Notes:     r.FormValue("notes"),
		HIPAA:     hipaa,
		Tags:      r.FormValue("tags"),
	}

	if errs := form.Validate(); !errs.Empty() {
		apierror.Fields(w, errs)
		return
	}

	tags := form.Tags
	if tags == "" {
		tags = BuildTags(form.Symptoms, form.Urgency, form.Insurance)
	}

	qual := Qualify(form)
	lead := &Lead{
		FirstName:            form.FirstName,
		LastName:             form.LastName,
		Email:                form.Email,
		Phone:                form.Phone,
		Zip:                  form.Zip,
		Insurance:            form.Insurance,
		Situation:            form.Situation,
		Urgency:              form.Urgency,
		Symptoms:             form.Symptoms,
		Financing:            form.Financing,
		Notes:                form.Notes,
		HIPAAConsent:         form.HIPAA,
		Tags:                 DedupeTags(SplitList(tags)),
		QualificationStatus:  qual.Status,
		QualificationScore:   qual.Score,
		QualificationReasons: qual.Reasons,
	}

	if err := h.repo.Create(r.Context(), lead); err != nil {
		h.logger.Error("failed to create lead", "error", err)
		apierror.Detail(w, http.StatusInternalServerError, "failed to create lead")
		return
	}

	h.cache.Invalidate(r.Context())
	h.logger.Info("lead created",
		"id", lead.ID,
		"qualification", string(lead.QualificationStatus),
		"score", lead.QualificationScore,
	)

	for _, fn := range h.listeners {
		fn(lead)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(lead)
}

// ListLeads handles GET /api/leads/. Optional ?status= and ?q= narrow
// the collection server-side with the same semantics the dashboard
// filter bar uses.
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	all, hit := h.cache.Get(r.Context())
	if !hit {
		var err error
		all, err = h.repo.List(r.Context())
		if err != nil {
			h.logger.Error("failed to list leads", "error", err)
			apierror.Detail(w, http.StatusInternalServerError, "failed to list leads")
			return
		}
		h.cache.Set(r.Context(), all)
	}

	filter := Filter{
		Status: r.URL.Query().Get("status"),
		Query:  r.URL.Query().Get("q"),
	}
	filtered := filter.Apply(all)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(filtered)
}

// PatchLead handles PATCH /api/leads/{id}/ — partial updates for tags,
// notes and qualification status. The stored collection is invalidated
// so the next poll reflects the server's authoritative state.
func (h *Handler) PatchLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req PatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.Detail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	lead, err := h.repo.Patch(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrLeadNotFound):
			apierror.Detail(w, http.StatusNotFound, "lead not found")
		case errors.Is(err, ErrInvalidStatus):
			errs := apierror.FieldErrors{}
			errs.Add("qualification_status", "must be qualified, nurture or disqualified")
			apierror.Fields(w, errs)
		default:
			h.logger.Error("failed to patch lead", "error", err, "id", id)
			apierror.Detail(w, http.StatusInternalServerError, "failed to update lead")
		}
		return
	}

	h.cache.Invalidate(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lead)
}
