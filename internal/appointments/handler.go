package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dentalops/leadflow/internal/http/apierror"
	"github.com/dentalops/leadflow/pkg/logging"
)

// Handler serves the scheduling endpoints.
type Handler struct {
	repo      Repository
	now       func() time.Time
	listeners []func(appt *Appointment)
	logger    *logging.Logger
}

// NewHandler creates an appointments handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, now: time.Now, logger: logger}
}

// OnBooked registers a callback invoked after each stored booking.
func (h *Handler) OnBooked(fn func(appt *Appointment)) {
	h.listeners = append(h.listeners, fn)
}

// ListAppointments handles GET /api/appointments/. The collection comes
// back in schedule order regardless of insertion order.
func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	all, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		apierror.Detail(w, http.StatusInternalServerError, "failed to list appointments")
		return
	}
	SortSchedule(all)
	if all == nil {
		all = []*Appointment{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(all)
}

// CreateAppointment handles POST /api/appointments/ from the booking
// form. New appointments start pending.
func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.Detail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	errs := apierror.FieldErrors{}
	if req.Date == "" {
		errs.Add("date", "Required")
	} else if _, err := ParseDate(req.Date); err != nil {
		errs.Add("date", "Enter a valid date in YYYY-MM-DD format")
	}
	if !errs.Empty() {
		apierror.Fields(w, errs)
		return
	}

	appt := NewFromBooking(req)
	if err := h.repo.Create(r.Context(), appt); err != nil {
		h.logger.Error("failed to create appointment", "error", err)
		apierror.Detail(w, http.StatusInternalServerError, "failed to create appointment")
		return
	}

	h.logger.Info("appointment booked",
		"id", appt.ID,
		"date", appt.Date,
		"time", appt.StartTime,
	)

	for _, fn := range h.listeners {
		fn(appt)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(appt)
}

// UpdateStatus handles PATCH /api/appointments/{id}/status/.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		apierror.Detail(w, http.StatusNotFound, "appointment not found")
		return
	}

	var req struct {
		Status Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.Detail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	appt, err := h.repo.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrAppointmentNotFound):
			apierror.Detail(w, http.StatusNotFound, "appointment not found")
		case errors.Is(err, ErrInvalidStatus):
			errs := apierror.FieldErrors{}
			errs.Add("status", "must be pending, confirmed or cancelled")
			apierror.Fields(w, errs)
		default:
			h.logger.Error("failed to update appointment status", "error", err, "id", id)
			apierror.Detail(w, http.StatusInternalServerError, "failed to update appointment")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appt)
}

// Calendar handles GET /api/appointments/calendar/?month=YYYY-MM. The
// month defaults to the current one.
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	ref := h.now().UTC()
	if month := r.URL.Query().Get("month"); month != "" {
		parsed, err := time.Parse("2006-01", month)
		if err != nil {
			errs := apierror.FieldErrors{}
			errs.Add("month", "Enter a valid month in YYYY-MM format")
			apierror.Fields(w, errs)
			return
		}
		ref = parsed
	}

	all, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to load calendar", "error", err)
		apierror.Detail(w, http.StatusInternalServerError, "failed to load calendar")
		return
	}

	grid := BuildCalendar(ref, h.now().UTC(), all)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(grid)
}
