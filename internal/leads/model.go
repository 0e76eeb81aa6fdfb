package leads

import (
	"strings"
	"time"

	"github.com/dentalops/leadflow/internal/http/apierror"
)

// QualificationStatus is the backend-assigned sales-readiness of a lead.
type QualificationStatus string

const (
	StatusQualified    QualificationStatus = "qualified"
	StatusNurture      QualificationStatus = "nurture"
	StatusDisqualified QualificationStatus = "disqualified"
)

// Valid reports whether the status is one of the three known values.
func (s QualificationStatus) Valid() bool {
	switch s {
	case StatusQualified, StatusNurture, StatusDisqualified:
		return true
	}
	return false
}

// Lead represents a prospective patient who submitted the intake form.
type Lead struct {
	ID                   string              `json:"id"`
	FirstName            string              `json:"firstName"`
	LastName             string              `json:"lastName"`
	Email                string              `json:"email"`
	Phone                string              `json:"phone"`
	Zip                  string              `json:"zip"`
	Insurance            string              `json:"insurance"`
	Situation            string              `json:"situation"`
	Urgency              string              `json:"urgency"`
	Symptoms             []string            `json:"symptoms"`
	Financing            string              `json:"financing"`
	Notes                string              `json:"notes"`
	HIPAAConsent         bool                `json:"hipaa"`
	Tags                 []string            `json:"tags"`
	QualificationStatus  QualificationStatus `json:"qualification_status"`
	QualificationScore   int                 `json:"qualification_score"`
	QualificationReasons []string            `json:"qualification_reasons"`
	SubmittedAt          time.Time           `json:"submitted_at"`
}

// IntakeForm carries the raw two-step wizard fields of a submission.
// Multi-valued fields arrive comma-joined from the form encoder.
type IntakeForm struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Zip       string
	Insurance string
	Situation string
	Urgency   string
	Symptoms  []string
	Financing string
	Notes     string
	HIPAA     bool
	Tags      string // comma-joined, client-computed; recomputed when empty
}

// Required field sets per wizard step. Step 1 gates advancement, both
// gate final submission.
var requiredByStep = map[int][]string{
	1: {"firstName", "lastName", "email", "phone", "zip", "insurance"},
	2: {"situation", "urgency", "financing", "hipaa"},
}

// ValidateStep checks the required fields of a single wizard step and
// returns "Required" errors for every failing field.
func (f *IntakeForm) ValidateStep(step int) apierror.FieldErrors {
	errs := apierror.FieldErrors{}
	for _, field := range requiredByStep[step] {
		if !f.fieldPresent(field) {
			errs.Add(field, "Required")
		}
	}
	return errs
}

// Validate checks both wizard steps, as the final submit does.
func (f *IntakeForm) Validate() apierror.FieldErrors {
	errs := f.ValidateStep(1)
	for field, msgs := range f.ValidateStep(2) {
		errs[field] = msgs
	}
	return errs
}

func (f *IntakeForm) fieldPresent(field string) bool {
	switch field {
	case "firstName":
		return strings.TrimSpace(f.FirstName) != ""
	case "lastName":
		return strings.TrimSpace(f.LastName) != ""
	case "email":
		return strings.TrimSpace(f.Email) != ""
	case "phone":
		return strings.TrimSpace(f.Phone) != ""
	case "zip":
		return strings.TrimSpace(f.Zip) != ""
	case "insurance":
		return strings.TrimSpace(f.Insurance) != ""
	case "situation":
		return strings.TrimSpace(f.Situation) != ""
	case "urgency":
		return strings.TrimSpace(f.Urgency) != ""
	case "financing":
		return strings.TrimSpace(f.Financing) != ""
	case "hipaa":
		return f.HIPAA
	}
	return true
}

// Filter narrows a lead collection the way the dashboard list does: a
// qualification-status filter AND'd with a free-text search, the search
// being a case-insensitive substring match OR'd across contact and
// intake fields.
type Filter struct {
	Status string // "", "all", or a QualificationStatus value
	Query  string
}

// Matches reports whether the lead passes the filter.
func (f Filter) Matches(l *Lead) bool {
	if f.Status != "" && f.Status != "all" && string(l.QualificationStatus) != f.Status {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	haystack := strings.ToLower(strings.Join([]string{
		l.FirstName, l.LastName, l.Email, l.Phone,
		l.Insurance, l.Situation, l.Urgency, l.Notes,
	}, " "))
	return strings.Contains(haystack, q)
}

// Apply returns the leads passing the filter, preserving order.
func (f Filter) Apply(all []*Lead) []*Lead {
	out := make([]*Lead, 0, len(all))
	for _, l := range all {
		if f.Matches(l) {
			out = append(out, l)
		}
	}
	return out
}

// SplitList parses a comma-joined multi-value form field.
func SplitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// DedupeTags removes duplicates while preserving first-seen order.
func DedupeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
